package storage

import (
	"fmt"
	"strings"
)

func InitStore(dbConnStr string) (*PostgresStore, error) {
	store, err := NewPostgresStore(dbConnStr)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// setBuilder accumulates SET clauses and positional args for partial
// updates. updated_at is always touched.
type setBuilder struct {
	sets []string
	args []interface{}
}

func newSetBuilder() *setBuilder {
	return &setBuilder{sets: []string{"updated_at = CURRENT_TIMESTAMP"}}
}

func (b *setBuilder) set(column string, value interface{}) {
	b.sets = append(b.sets, fmt.Sprintf("%s = %s", column, b.placeholder(value)))
}

func (b *setBuilder) raw(clause string) {
	b.sets = append(b.sets, clause)
}

// arg registers a value outside the SET list (e.g. for WHERE) and returns
// its placeholder.
func (b *setBuilder) arg(value interface{}) string {
	return b.placeholder(value)
}

func (b *setBuilder) placeholder(value interface{}) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *setBuilder) clause() string {
	return strings.Join(b.sets, ", ")
}
