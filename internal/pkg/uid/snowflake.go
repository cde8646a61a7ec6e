package uid

import "github.com/bwmarrin/snowflake"

// Snowflake generates time-ordered int64 IDs from a single node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a generator bound to node 1; the client is a single
// process, so there is no node coordination.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

// Generate returns the next ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
