package task

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is the query surface of the task list views. Zero values mean
// "no constraint".
type Filter struct {
	Status      TaskStatus
	Priority    TaskPriority
	AssignedTo  string
	AssignedBy  string
	Category    string
	Tags        []string
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// BuildFilter translates a Filter into the Mongo query document. Search
// matches case-insensitively against title, description, assignee name
// and tags.
func BuildFilter(f Filter) bson.M {
	query := bson.M{}

	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.Priority != "" {
		query["priority"] = f.Priority
	}
	if f.AssignedTo != "" {
		if oid, err := primitive.ObjectIDFromHex(f.AssignedTo); err == nil {
			query["assigned_to"] = oid
		}
	}
	if f.AssignedBy != "" {
		if oid, err := primitive.ObjectIDFromHex(f.AssignedBy); err == nil {
			query["assigned_by"] = oid
		}
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if len(f.Tags) > 0 {
		query["tags"] = bson.M{"$all": f.Tags}
	}
	if f.CreatedFrom != nil || f.CreatedTo != nil {
		rng := bson.M{}
		if f.CreatedFrom != nil {
			rng["$gte"] = *f.CreatedFrom
		}
		if f.CreatedTo != nil {
			rng["$lte"] = *f.CreatedTo
		}
		query["created_at"] = rng
	}
	if f.Search != "" {
		// Search terms match literally; metacharacters must not reach
		// the server-side regex engine.
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": regex}},
			{"description": bson.M{"$regex": regex}},
			{"assigned_to_name": bson.M{"$regex": regex}},
			{"tags": bson.M{"$regex": regex}},
		}
	}

	return query
}

// sortFields whitelists the sortable fields and maps them to their
// document keys. Priority sorts by the stored rank.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"priority":  "priority_rank",
	"title":     "title",
}

// SortKey resolves a requested sort field to its document key, falling
// back to creation time for anything off the whitelist.
func SortKey(field string) string {
	if key, ok := sortFields[field]; ok {
		return key
	}
	return "created_at"
}

// ListOptions carries pagination and sorting for the list views.
type ListOptions struct {
	Page      int64
	Limit     int64
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Normalize clamps pagination to sane bounds.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = 10
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	return o
}

// PageMeta is the pagination envelope returned with every list result.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPageMeta derives the envelope from a total count and the normalized
// options.
func NewPageMeta(total int64, opts ListOptions) PageMeta {
	totalPages := total / opts.Limit
	if total%opts.Limit != 0 {
		totalPages++
	}
	return PageMeta{
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
		HasNext:    opts.Page < totalPages,
		HasPrev:    opts.Page > 1,
	}
}
