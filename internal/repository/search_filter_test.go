package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMongoSearchFilter(t *testing.T) {
	filter := mongoSearchFilter("c++ (dev)")

	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, len(searchFields))

	for i, f := range searchFields {
		clause, ok := or[i].(bson.M)
		require.True(t, ok)
		cond, ok := clause[f].(bson.M)
		require.True(t, ok, "field %s", f)
		assert.Equal(t, `c\+\+ \(dev\)`, cond["$regex"])
		assert.Equal(t, "i", cond["$options"])
	}
}

func TestLikeContains(t *testing.T) {
	cases := map[string]string{
		"housing":  "%housing%",
		"100%":     `%100\%%`,
		"a_b":      `%a\_b%`,
		`back\sla`: `%back\\sla%`,
	}
	for in, want := range cases {
		assert.Equal(t, want, likeContains(in), in)
	}
}
