package e2e

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"

	"relay-lab/transport"
)

// RelaySuite runs the reference conversation against a live relay.
// Peer names carry a random suffix so parallel suite runs against a shared
// environment cannot collide.
type RelaySuite struct {
	suite.Suite
	cfg Config
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupSuite() {
	cfg, err := LoadConfig()
	s.Require().NoError(err)
	if cfg.RelayAddr == "" {
		s.T().Skip("RELAY_ADDR not set, skipping e2e suite")
	}
	s.cfg = cfg
}

func (s *RelaySuite) logf(format string, args ...any) {
	if s.cfg.Colours {
		color.Green.Printf(format+"\n", args...)
		return
	}
	s.T().Logf(format, args...)
}

func (s *RelaySuite) dial(name string) *transport.TextConn {
	conn, err := net.Dial("tcp", s.cfg.RelayAddr)
	s.Require().NoError(err)
	channel := transport.NewTextConn(conn)
	s.T().Cleanup(func() { _ = channel.Close() })

	prompt, err := s.readLine(channel)
	s.Require().NoError(err)
	s.Require().Equal("Please enter your name:", prompt)
	s.Require().NoError(channel.WriteLine(name))
	s.logf("peer %s connected to %s", name, s.cfg.RelayAddr)
	return channel
}

func (s *RelaySuite) readLine(channel *transport.TextConn) (string, error) {
	type result struct {
		line string
		err  error
	}
	res := make(chan result, 1)
	go func() {
		line, err := channel.ReadLine()
		res <- result{line: line, err: err}
	}()
	select {
	case r := <-res:
		return r.line, r.err
	case <-time.After(5 * time.Second):
		return "", fmt.Errorf("timed out waiting for the relay")
	}
}

func (s *RelaySuite) TestJoinChatLeave() {
	suffix := uuid.NewString()[:8]
	aliceName := "alice-" + suffix
	bobName := "bob-" + suffix

	alice := s.dial(aliceName)
	// Give the relay time to register alice before bob's join is announced.
	time.Sleep(200 * time.Millisecond)
	bob := s.dial(bobName)

	// Alice sees bob arrive
	line, err := s.readLine(alice)
	s.Require().NoError(err)
	s.Require().Equal(fmt.Sprintf("[%s] joined", bobName), line)

	// Bob speaks, alice hears exactly his line
	s.Require().NoError(bob.WriteLine("hello"))
	line, err = s.readLine(alice)
	s.Require().NoError(err)
	s.Require().Equal(fmt.Sprintf("[%s]: hello", bobName), line)
	s.logf("%s received %q", aliceName, line)

	// Alice leaves, bob is told
	s.Require().NoError(alice.Close())
	line, err = s.readLine(bob)
	s.Require().NoError(err)
	s.Require().Equal(fmt.Sprintf("[%s] left", aliceName), line)
	s.logf("%s received %q", bobName, line)
}
