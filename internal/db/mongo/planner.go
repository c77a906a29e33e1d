package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/kailas-cloud/docsearch/internal/db"
	"github.com/kailas-cloud/docsearch/internal/domain/fieldmap"
	"github.com/kailas-cloud/docsearch/internal/domain/record"
	"github.com/kailas-cloud/docsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
)

// objectIDHexLen is the length of an ObjectID in hex form.
const objectIDHexLen = 24

// Compile-time checks: plans implement db.Plan.
var (
	_ db.Plan = (*RankedPlan)(nil)
	_ db.Plan = (*FallbackPlan)(nil)
)

// RankedPlan is an Atlas Search aggregation.
type RankedPlan struct {
	Query    string
	Pipeline mongodrv.Pipeline
	limit    int
}

// Mode returns mode.Ranked.
func (p *RankedPlan) Mode() mode.Mode { return mode.Ranked }

// Limit returns the result cap.
func (p *RankedPlan) Limit() int { return p.limit }

// FallbackPlan is a case-insensitive regex match over a fixed field list.
type FallbackPlan struct {
	Query string
	// Pattern is the regex sent to the server: the escaped query, or the raw
	// query when the planner runs with raw patterns enabled.
	Pattern string
	Paths   []string
	limit   int
}

// Mode returns mode.Fallback.
func (p *FallbackPlan) Mode() mode.Mode { return mode.Fallback }

// Limit returns the result cap.
func (p *FallbackPlan) Limit() int { return p.limit }

// Filter builds the $or predicate.
func (p *FallbackPlan) Filter() bson.D {
	or := make(bson.A, 0, len(p.Paths))
	for _, path := range p.Paths {
		or = append(or, bson.D{{Key: path, Value: bson.D{
			{Key: "$regex", Value: p.Pattern},
			{Key: "$options", Value: "i"},
		}}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

// Planner builds store plans for search requests.
type Planner struct {
	index      string
	fields     fieldmap.Mapping
	rawPattern bool
}

// NewPlanner creates a planner for the named Atlas Search index.
func NewPlanner(index string, fields fieldmap.Mapping) *Planner {
	return &Planner{index: index, fields: fields}
}

// WithRawPattern makes fallback search send the query to $regex unescaped.
func (p *Planner) WithRawPattern(raw bool) *Planner {
	p.rawPattern = raw
	return p
}

// Plan builds a RankedPlan or a FallbackPlan depending on the request mode.
func (p *Planner) Plan(req *request.Request) db.Plan {
	if req.Mode() == mode.Ranked {
		return p.ranked(req.Query(), req.Limit())
	}
	return p.fallback(req.Query(), req.Limit())
}

func (p *Planner) ranked(query string, limit int) *RankedPlan {
	paths := p.fields.RankedPaths
	should := bson.A{
		bson.D{{Key: "text", Value: bson.D{
			{Key: "query", Value: query},
			{Key: "path", Value: paths[0]},
			{Key: "score", Value: bson.D{{Key: "boost", Value: bson.D{{Key: "value", Value: p.fields.TitleBoost}}}}},
		}}},
	}
	if len(paths) > 1 {
		should = append(should, bson.D{{Key: "text", Value: bson.D{
			{Key: "query", Value: query},
			{Key: "path", Value: toA(paths[1:])},
		}}})
	}

	search := bson.D{
		{Key: "index", Value: p.index},
		{Key: "compound", Value: bson.D{{Key: "should", Value: should}}},
	}
	if len(p.fields.HighlightPaths) > 0 {
		search = append(search, bson.E{Key: "highlight", Value: bson.D{
			{Key: "path", Value: toA(p.fields.HighlightPaths)},
		}})
	}

	project := bson.D{{Key: record.KeyID, Value: bson.D{{Key: "$toString", Value: "$" + record.KeyID}}}}
	for _, f := range p.fields.SourceFields() {
		project = append(project, bson.E{Key: f, Value: 1})
	}
	project = append(project, bson.E{Key: record.KeyHighlights, Value: bson.D{{Key: "$meta", Value: "searchHighlights"}}})

	return &RankedPlan{
		Query: query,
		Pipeline: mongodrv.Pipeline{
			{{Key: "$search", Value: search}},
			{{Key: "$limit", Value: limit}},
			{{Key: "$project", Value: project}},
		},
		limit: limit,
	}
}

func (p *Planner) fallback(query string, limit int) *FallbackPlan {
	pattern := query
	if !p.rawPattern {
		pattern = regexp.QuoteMeta(query)
	}
	return &FallbackPlan{
		Query:   query,
		Pattern: pattern,
		Paths:   append([]string(nil), p.fields.FallbackPaths...),
		limit:   limit,
	}
}

// Lookup builds the equality filter for a single-document fetch. Ids shaped
// like an ObjectID match _id; anything else matches the application id field.
func (p *Planner) Lookup(id string) bson.D {
	if len(id) == objectIDHexLen {
		if oid, err := bson.ObjectIDFromHex(id); err == nil {
			return bson.D{{Key: record.KeyID, Value: oid}}
		}
	}
	return bson.D{{Key: p.fields.AppID, Value: id}}
}

func toA(ss []string) bson.A {
	out := make(bson.A, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
