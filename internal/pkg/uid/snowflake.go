package uid

import (
	"crypto/sha256"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 identifiers. The node number is
// derived from the machine identity so replicas do not collide.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a Snowflake generator bound to this machine.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// nodeNumber hashes the stable machine identity into the 10-bit node space.
func nodeNumber() int64 {
	src := "unknown"
	if b, err := os.ReadFile("/etc/machine-id"); err == nil && strings.TrimSpace(string(b)) != "" {
		src = strings.TrimSpace(string(b))
	} else if h, err := os.Hostname(); err == nil && strings.TrimSpace(h) != "" {
		src = strings.TrimSpace(h)
	}

	sum := sha256.Sum256([]byte(src))
	return int64(sum[0])<<2 | int64(sum[1])>>6
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
