package task

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilter(t *testing.T) {
	assignee := primitive.NewObjectID()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter Filter
		want   bson.M
	}{
		{
			name:   "empty filter matches everything",
			filter: Filter{},
			want:   bson.M{},
		},
		{
			name:   "status and priority",
			filter: Filter{Status: StatusPending, Priority: PriorityUrgent},
			want:   bson.M{"status": StatusPending, "priority": PriorityUrgent},
		},
		{
			name:   "assignee id",
			filter: Filter{AssignedTo: assignee.Hex()},
			want:   bson.M{"assigned_to": assignee},
		},
		{
			name:   "malformed assignee id is dropped",
			filter: Filter{AssignedTo: "not-an-id"},
			want:   bson.M{},
		},
		{
			name:   "tags require all",
			filter: Filter{Tags: []string{"aid", "winter"}},
			want:   bson.M{"tags": bson.M{"$all": []string{"aid", "winter"}}},
		},
		{
			name:   "created range",
			filter: Filter{CreatedFrom: &from, CreatedTo: &to},
			want:   bson.M{"created_at": bson.M{"$gte": from, "$lte": to}},
		},
		{
			name:   "open-ended created range",
			filter: Filter{CreatedFrom: &from},
			want:   bson.M{"created_at": bson.M{"$gte": from}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildFilter(tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildFilterSearch(t *testing.T) {
	got := BuildFilter(Filter{Search: "water"})

	or, ok := got["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or clause, got %v", got)
	}
	if len(or) != 4 {
		t.Fatalf("expected 4 search branches, got %d", len(or))
	}

	wantFields := map[string]bool{"title": false, "description": false, "assigned_to_name": false, "tags": false}
	for _, branch := range or {
		for field, cond := range branch {
			if _, known := wantFields[field]; !known {
				t.Errorf("unexpected search field %q", field)
				continue
			}
			wantFields[field] = true
			rx, ok := cond.(bson.M)["$regex"].(primitive.Regex)
			if !ok {
				t.Errorf("field %q: expected regex condition, got %v", field, cond)
				continue
			}
			if rx.Pattern != "water" || rx.Options != "i" {
				t.Errorf("field %q: regex = %v, want case-insensitive 'water'", field, rx)
			}
		}
	}
	for field, seen := range wantFields {
		if !seen {
			t.Errorf("search does not cover field %q", field)
		}
	}
}

func TestBuildFilterSearchMatchesLiterally(t *testing.T) {
	got := BuildFilter(Filter{Search: "aid (phase 2)"})

	or, ok := got["$or"].([]bson.M)
	if !ok || len(or) == 0 {
		t.Fatalf("expected $or clause, got %v", got)
	}
	rx, ok := or[0]["title"].(bson.M)["$regex"].(primitive.Regex)
	if !ok {
		t.Fatalf("expected regex condition, got %v", or[0])
	}
	if want := `aid \(phase 2\)`; rx.Pattern != want {
		t.Errorf("pattern = %q, want %q", rx.Pattern, want)
	}
}

func TestSortKey(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"createdAt", "created_at"},
		{"updatedAt", "updated_at"},
		{"dueDate", "due_date"},
		{"priority", "priority_rank"},
		{"title", "title"},
		{"password_hash", "created_at"},
		{"", "created_at"},
	}

	for _, tt := range tests {
		if got := SortKey(tt.field); got != tt.want {
			t.Errorf("SortKey(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestListOptionsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ListOptions
		want ListOptions
	}{
		{
			name: "defaults",
			in:   ListOptions{},
			want: ListOptions{Page: 1, Limit: 10, SortOrder: "desc"},
		},
		{
			name: "limit clamped high",
			in:   ListOptions{Page: 2, Limit: 500, SortOrder: "asc"},
			want: ListOptions{Page: 2, Limit: 100, SortOrder: "asc"},
		},
		{
			name: "negative page",
			in:   ListOptions{Page: -3, Limit: 20, SortOrder: "desc"},
			want: ListOptions{Page: 1, Limit: 20, SortOrder: "desc"},
		},
		{
			name: "bad sort order",
			in:   ListOptions{Page: 1, Limit: 20, SortOrder: "sideways"},
			want: ListOptions{Page: 1, Limit: 20, SortOrder: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Page != tt.want.Page || got.Limit != tt.want.Limit || got.SortOrder != tt.want.SortOrder {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		opts  ListOptions
		want  PageMeta
	}{
		{
			name:  "exact pages",
			total: 40,
			opts:  ListOptions{Page: 1, Limit: 10},
			want:  PageMeta{Total: 40, Page: 1, Limit: 10, TotalPages: 4, HasNext: true, HasPrev: false},
		},
		{
			name:  "partial last page",
			total: 41,
			opts:  ListOptions{Page: 5, Limit: 10},
			want:  PageMeta{Total: 41, Page: 5, Limit: 10, TotalPages: 5, HasNext: false, HasPrev: true},
		},
		{
			name:  "middle page",
			total: 30,
			opts:  ListOptions{Page: 2, Limit: 10},
			want:  PageMeta{Total: 30, Page: 2, Limit: 10, TotalPages: 3, HasNext: true, HasPrev: true},
		},
		{
			name:  "empty result",
			total: 0,
			opts:  ListOptions{Page: 1, Limit: 10},
			want:  PageMeta{Total: 0, Page: 1, Limit: 10, TotalPages: 0, HasNext: false, HasPrev: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageMeta(tt.total, tt.opts)
			if got != tt.want {
				t.Errorf("NewPageMeta() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
