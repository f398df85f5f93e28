package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// searchFields are the expert fields a directory search matches against.
// skills is an array; stores match it per element.
var searchFields = []string{"name", "title", "department", "skills"}

func mongoSearchFilter(query string) bson.M {
	pattern := regexp.QuoteMeta(query)
	or := make(bson.A, 0, len(searchFields))
	for _, f := range searchFields {
		or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return bson.M{"$or": or}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeContains builds an ILIKE pattern matching query anywhere in the value.
func likeContains(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
