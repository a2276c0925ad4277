package tests

import (
	"bufio"
	"fmt"
	"net"
	"regexp"
	"strings"
	"sync"
)

// smtpSink is a minimal SMTP server capturing every delivered message, so
// tests can read the codes the server mails out. It speaks just enough of the
// protocol for net/smtp: no extensions, so the client never attempts
// STARTTLS or AUTH.
type smtpSink struct {
	listener net.Listener

	mu       sync.Mutex
	messages []sinkMessage
}

type sinkMessage struct {
	To   []string
	Data string
}

func startSMTPSink() (*smtpSink, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s := &smtpSink{listener: l}
	go s.acceptLoop()

	return s, nil
}

func (s *smtpSink) Host() string {
	return "127.0.0.1"
}

func (s *smtpSink) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *smtpSink) Close() error {
	return s.listener.Close()
}

func (s *smtpSink) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.serve(conn)
	}
}

func (s *smtpSink) serve(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	reply := func(line string) bool {
		if _, err := w.WriteString(line + "\r\n"); err != nil {
			return false
		}
		return w.Flush() == nil
	}

	if !reply("220 rankstage-tests ESMTP") {
		return
	}

	var msg sinkMessage
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			if !reply("250 rankstage-tests") {
				return
			}
		case strings.HasPrefix(verb, "MAIL FROM:"):
			msg = sinkMessage{}
			if !reply("250 OK") {
				return
			}
		case strings.HasPrefix(verb, "RCPT TO:"):
			addr := strings.Trim(line[len("RCPT TO:"):], " <>")
			msg.To = append(msg.To, addr)
			if !reply("250 OK") {
				return
			}
		case verb == "DATA":
			if !reply("354 End data with <CR><LF>.<CR><LF>") {
				return
			}
			var data strings.Builder
			for {
				dataLine, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(dataLine, "\r\n") == "." {
					break
				}
				data.WriteString(dataLine)
			}
			msg.Data = data.String()
			s.mu.Lock()
			s.messages = append(s.messages, msg)
			s.mu.Unlock()
			if !reply("250 OK") {
				return
			}
		case verb == "QUIT":
			reply("221 Bye")
			return
		default:
			if !reply("250 OK") {
				return
			}
		}
	}
}

var sixDigitCode = regexp.MustCompile(`>(\d{6})<`)

// lastCodeFor returns the verification code from the most recent message
// delivered to the given address.
func (s *smtpSink) lastCodeFor(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		for _, to := range s.messages[i].To {
			if !strings.EqualFold(to, email) {
				continue
			}
			m := sixDigitCode.FindStringSubmatch(s.messages[i].Data)
			if m == nil {
				return "", fmt.Errorf("no six-digit code in message to %s", email)
			}
			return m[1], nil
		}
	}

	return "", fmt.Errorf("no message delivered to %s", email)
}
