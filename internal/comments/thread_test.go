package comments

import (
	"database/sql"
	"testing"
	"time"

	"github.com/matchday/terrace/internal/models"
)

var threadEpoch = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func testComment(id string, parentID string, createdOffset time.Duration) *models.Comment {
	c := &models.Comment{
		ID:        id,
		ArticleID: "article-1",
		AuthorID:  "author-" + id,
		Content:   "comment " + id,
		CreatedAt: threadEpoch.Add(createdOffset),
	}
	if parentID != "" {
		c.ParentID = sql.NullString{String: parentID, Valid: true}
	}
	return c
}

func threadIDs(threads []*Thread) []string {
	ids := make([]string, len(threads))
	for i, t := range threads {
		ids[i] = t.Comment.ID
	}
	return ids
}

func assertOrder(t *testing.T, got []*Thread, want ...string) {
	t.Helper()
	ids := threadIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestAssembleThreadsNesting(t *testing.T) {
	// C1 (t=0) and C2 (t=5) are roots; R1 (t=1) and R2 (t=2) reply to C1.
	rows := []*models.Comment{
		testComment("c2", "", 5*time.Minute),
		testComment("c1", "", 0),
		testComment("r2", "c1", 2*time.Minute),
		testComment("r1", "c1", 1*time.Minute),
	}

	threads := AssembleThreads(rows, nil)
	if len(threads) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(threads))
	}

	SortRoots(threads, SortNewest)
	assertOrder(t, threads, "c2", "c1")

	c1 := threads[1]
	assertOrder(t, c1.Replies, "r1", "r2")

	// Replies stay oldest-first whatever the root sort mode is.
	SortRoots(threads, SortOldest)
	assertOrder(t, threads[0].Replies, "r1", "r2")
}

func TestAssembleThreadsOrphansDropped(t *testing.T) {
	rows := []*models.Comment{
		testComment("root", "", 0),
		testComment("orphan", "missing-parent", time.Minute),
		testComment("orphan-child", "orphan", 2*time.Minute),
	}

	threads := AssembleThreads(rows, nil)
	if len(threads) != 1 || threads[0].Comment.ID != "root" {
		t.Fatalf("expected only the root thread, got %v", threadIDs(threads))
	}
	// The orphan must not be promoted to root nor appear as a reply.
	if len(threads[0].Replies) != 0 {
		t.Errorf("expected no replies under root, got %d", len(threads[0].Replies))
	}
}

func TestAssembleThreadsDeepNestingSorted(t *testing.T) {
	rows := []*models.Comment{
		testComment("root", "", 0),
		testComment("a", "root", 3*time.Minute),
		testComment("b", "root", 1*time.Minute),
		testComment("b1", "b", 5*time.Minute),
		testComment("b2", "b", 4*time.Minute),
	}

	threads := AssembleThreads(rows, nil)
	root := threads[0]
	assertOrder(t, root.Replies, "b", "a")
	assertOrder(t, root.Replies[0].Replies, "b2", "b1")
}

func TestAssembleThreadsViewerReactions(t *testing.T) {
	rows := []*models.Comment{
		testComment("c1", "", 0),
		testComment("c2", "", time.Minute),
	}
	reactions := []*models.Reaction{
		{CommentID: "c1", UserID: "viewer", Type: models.ReactionLike},
	}

	threads := AssembleThreads(rows, reactions)
	byID := map[string]*Thread{}
	for _, th := range threads {
		byID[th.Comment.ID] = th
	}
	if byID["c1"].ViewerReaction != models.ReactionLike {
		t.Errorf("c1 viewer reaction = %q, want like", byID["c1"].ViewerReaction)
	}
	if byID["c2"].ViewerReaction != models.ReactionNone {
		t.Errorf("c2 viewer reaction = %q, want none", byID["c2"].ViewerReaction)
	}
}

func TestSortRootsMostLiked(t *testing.T) {
	rows := []*models.Comment{
		testComment("a", "", 0),
		testComment("b", "", time.Minute),
		testComment("c", "", 2*time.Minute),
	}
	rows[0].LikesCount, rows[0].DislikesCount = 3, 1 // net 2
	rows[1].LikesCount, rows[1].DislikesCount = 5, 1 // net 4
	rows[2].LikesCount, rows[2].DislikesCount = 2, 0 // net 2, ties with a

	threads := AssembleThreads(rows, nil)
	SortRoots(threads, SortMostLiked)
	// Ties keep the incoming order: a was assembled before c.
	assertOrder(t, threads, "b", "a", "c")
}

func TestFilterThreads(t *testing.T) {
	rows := []*models.Comment{
		testComment("a", "", 0),
		testComment("b", "", time.Minute),
		testComment("c", "", 2*time.Minute),
	}
	rows[0].Content = "What a header by the striker"
	rows[1].Content = "Offside all day long"
	rows[1].AuthorName = "TerraceTalker"
	rows[2].Content = "nothing to see"

	threads := AssembleThreads(rows, nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"matches content", "header", []string{"a"}},
		{"case insensitive", "OFFSIDE", []string{"b"}},
		{"matches author name", "terracetalker", []string{"b"}},
		{"no match", "penalty", []string{}},
		{"empty keeps all", "", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterThreads(threads, tt.query)
			assertOrder(t, got, tt.want...)
		})
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   SortMode
		wantOK bool
	}{
		{"default", "", SortNewest, true},
		{"newest", "newest", SortNewest, true},
		{"oldest", "oldest", SortOldest, true},
		{"most liked", "most_liked", SortMostLiked, true},
		{"unknown", "spiciest", SortNewest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSortMode(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseSortMode(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
