package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/kailas-cloud/docsearch/internal/domain/record"
)

// toRecord converts a decoded BSON document into a driver-free record.
func toRecord(m bson.M) record.Record {
	r := make(record.Record, len(m))
	for k, v := range m {
		r[k] = normalize(v)
	}
	return r
}

// normalize turns BSON container and scalar types into plain Go values:
// documents become map[string]any, arrays []any, ObjectIDs their hex form.
func normalize(v any) any {
	switch x := v.(type) {
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = normalize(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = normalize(e)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case bson.ObjectID:
		return x.Hex()
	case bson.DateTime:
		return x.Time().UTC().Format(time.RFC3339)
	case bson.Decimal128:
		return x.String()
	default:
		return v
	}
}
