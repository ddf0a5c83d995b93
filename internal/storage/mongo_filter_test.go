package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/query"
)

func TestMongoFilterEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, mongoFilter(nil))
}

func TestMongoFilterFromSearch(t *testing.T) {
	w := query.FromSearch("a.b", domain.SearchFilters{
		EnzymeType:     "蛋白酶",
		SequenceLength: "500-1000 bp",
	})
	filter := mongoFilter(w)

	and, ok := filter["$and"].(bson.A)
	require.True(t, ok)
	require.Len(t, and, 4)

	or := and[0].(bson.M)["$or"].(bson.A)
	require.Len(t, or, 4)
	assert.Equal(t, bson.M{"name": primitive.Regex{Pattern: `a\.b`, Options: "i"}}, or[0])
	assert.Equal(t, bson.M{"accession": primitive.Regex{Pattern: `a\.b`, Options: "i"}}, or[3])

	assert.Equal(t, bson.M{"enzyme_type": "蛋白酶"}, and[1])
	assert.Equal(t, bson.M{"length": bson.M{"$gte": 500}}, and[2])
	assert.Equal(t, bson.M{"length": bson.M{"$lte": 1000}}, and[3])
}

func TestMongoSortAndProjection(t *testing.T) {
	assert.Equal(t,
		bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
		mongoSort(query.DefaultOrder))
	assert.Equal(t,
		bson.D{{Key: "length", Value: -1}},
		mongoSort([]query.Order{{Field: query.FieldLength, Desc: true}}))

	assert.Equal(t,
		bson.M{"_id": 1, "domain": 1},
		mongoProjection([]query.Field{query.FieldID, query.FieldDomain}))
}
