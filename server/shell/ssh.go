package shell

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io/ioutil"
	"net"
	"os"

	"github.com/d3ce1t/areyouin-events/logger"
	"github.com/twinj/uuid"
	"golang.org/x/crypto/ssh"
)

type SSHConfig struct {
	Address  string
	Port     int
	HostKey  string // path to a PEM private key
	User     string
	Password string
}

// StartSSH serves shell sessions until ctx is done.
func StartSSH(ctx context.Context, server Server, cfg SSHConfig) error {

	config, err := loadConfig(cfg)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("%v:%v", cfg.Address, cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen for connection: %w", err)
	}

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	logger.LogIf("SSH Terminal: listening on %v", listener.Addr())

	// Manage incoming connections
	for {
		nConn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.LogEf("SSH Terminal: failed to accept incoming connection (%v)", err)
			continue
		}
		go manageSSHSession(ctx, server, nConn, config)
	}
}

func manageSSHSession(ctx context.Context, server Server, nConn net.Conn, config *ssh.ServerConfig) {

	sessionID := uuid.NewV4().String()

	defer func() {
		if r := recover(); r != nil {
			logger.LogEf("Shell Session %v Error: %v", sessionID, r)
		}
		nConn.Close()
	}()

	// Before use, a handshake must be performed on the incoming
	// net.Conn.
	serverConn, chans, reqs, err := ssh.NewServerConn(nConn, config)
	if err != nil {
		logger.LogWf("Shell Session %v: failed to handshake (%v)", sessionID, err)
		return
	}
	defer serverConn.Close()

	logger.LogIf("Shell Session %v: %v connected from %v", sessionID, serverConn.User(), serverConn.RemoteAddr())

	// The incoming Request channel must be serviced.
	go ssh.DiscardRequests(reqs)

	// Service the incoming Channel channel.
	var newChannel ssh.NewChannel

	for candidate := range chans {
		// Only "session" channels present a shell
		if candidate.ChannelType() != "session" {
			candidate.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		newChannel = candidate
		break
	}

	if newChannel == nil {
		return
	}

	channel, requests, err := newChannel.Accept()
	if err != nil {
		panic("could not accept channel.")
	}
	defer channel.Close()

	// Only the "shell" request is accepted, without commands
	go func(in <-chan *ssh.Request) {
		for req := range in {
			ok := false
			switch req.Type {
			case "shell":
				ok = len(req.Payload) == 0
			case "pty-req":
				ok = true
			}
			req.Reply(ok, nil)
		}
	}(requests)

	shell := NewShell(ctx, server, channel)
	shell.Run()
}

func loadConfig(cfg SSHConfig) (*ssh.ServerConfig, error) {

	if cfg.Password == "" {
		return nil, errors.New("ssh password is not set")
	}

	config := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			userOk := subtle.ConstantTimeCompare([]byte(c.User()), []byte(cfg.User)) == 1
			passOk := subtle.ConstantTimeCompare(pass, []byte(cfg.Password)) == 1
			if userOk && passOk {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", c.User())
		},
	}

	signer, err := loadHostKey(cfg.HostKey)
	if err != nil {
		return nil, err
	}

	config.AddHostKey(signer)

	return config, nil
}

// loadHostKey reads the host key from path. A missing file gives a key
// generated for this process only.
func loadHostKey(path string) (ssh.Signer, error) {

	privateBytes, err := ioutil.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.LogWf("SSH Terminal: %v not found, using an ephemeral host key", path)
		_, private, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		return ssh.NewSignerFromKey(private)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	private, err := ssh.ParsePrivateKey(privateBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return private, nil
}
