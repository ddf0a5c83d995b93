// Path: internal/storage/mongo_filter.go
package storage

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"gene-catalog/internal/query"
)

func mongoField(f query.Field) string {
	if f == query.FieldID {
		return "_id"
	}
	return string(f)
}

// mongoFilter translates a predicate set into a find filter.
func mongoFilter(w query.Where) bson.M {
	if len(w) == 0 {
		return bson.M{}
	}
	and := make(bson.A, 0, len(w))
	for _, c := range w {
		if len(c.AnyOf) == 1 {
			and = append(and, mongoPredicate(c.AnyOf[0]))
			continue
		}
		or := make(bson.A, 0, len(c.AnyOf))
		for _, p := range c.AnyOf {
			or = append(or, mongoPredicate(p))
		}
		and = append(and, bson.M{"$or": or})
	}
	return bson.M{"$and": and}
}

func mongoPredicate(p query.Predicate) bson.M {
	field := mongoField(p.Field)
	switch p.Op {
	case query.OpILike:
		s, _ := p.Value.(string)
		return bson.M{field: primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}
	case query.OpGte:
		return bson.M{field: bson.M{"$gte": p.Value}}
	case query.OpLte:
		return bson.M{field: bson.M{"$lte": p.Value}}
	default:
		return bson.M{field: p.Value}
	}
}

func mongoSort(order []query.Order) bson.D {
	sort := make(bson.D, 0, len(order))
	for _, o := range order {
		dir := 1
		if o.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: mongoField(o.Field), Value: dir})
	}
	return sort
}

func mongoProjection(fields []query.Field) bson.M {
	proj := bson.M{"_id": 1}
	for _, f := range fields {
		proj[mongoField(f)] = 1
	}
	return proj
}
