package comments

import (
	"sort"
	"strings"

	"github.com/matchday/terrace/internal/models"
)

// Thread is the assembled read-side view: a comment plus its ordered
// replies, recursively. It is recomputed on every fetch and never
// persisted.
type Thread struct {
	Comment        *models.Comment     `json:"comment"`
	ViewerReaction models.ReactionType `json:"viewer_reaction,omitempty"`
	Replies        []*Thread           `json:"replies"`
}

// SortMode orders the list of root threads. Replies are always
// oldest-first regardless of the mode.
type SortMode string

// Sort modes
const (
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortMostLiked SortMode = "most_liked"
)

// ParseSortMode resolves a mode string, defaulting to newest.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case SortNewest, SortOldest, SortMostLiked:
		return SortMode(s), true
	case "":
		return SortNewest, true
	}
	return SortNewest, false
}

// AssembleThreads converts flat comment rows plus the viewer's reaction
// rows into root threads. Roots keep the input order; replies are
// sorted oldest-first at every level. A comment whose parent is not in
// the input set is an orphan and is dropped, never promoted to root:
// showing it without its parent would misrepresent context.
func AssembleThreads(rows []*models.Comment, viewerReactions []*models.Reaction) []*Thread {
	reactionByComment := make(map[string]models.ReactionType, len(viewerReactions))
	for _, r := range viewerReactions {
		reactionByComment[r.CommentID] = r.Type
	}

	// Arena index: id -> node, parent id -> child ids. Built once, then
	// traversed read-only.
	nodes := make(map[string]*Thread, len(rows))
	childIDs := make(map[string][]string)
	var rootIDs []string

	for _, row := range rows {
		nodes[row.ID] = &Thread{
			Comment:        row,
			ViewerReaction: reactionByComment[row.ID],
			Replies:        []*Thread{},
		}
	}
	for _, row := range rows {
		if !row.ParentID.Valid {
			rootIDs = append(rootIDs, row.ID)
			continue
		}
		parentID := row.ParentID.String
		if _, ok := nodes[parentID]; !ok {
			// Orphan: parent filtered out (hidden/unapproved).
			continue
		}
		childIDs[parentID] = append(childIDs[parentID], row.ID)
	}

	roots := make([]*Thread, 0, len(rootIDs))
	for _, id := range rootIDs {
		roots = append(roots, buildThread(id, nodes, childIDs))
	}
	return roots
}

func buildThread(id string, nodes map[string]*Thread, childIDs map[string][]string) *Thread {
	node := nodes[id]
	ids := childIDs[id]
	replies := make([]*Thread, 0, len(ids))
	for _, childID := range ids {
		replies = append(replies, buildThread(childID, nodes, childIDs))
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].Comment.CreatedAt.Before(replies[j].Comment.CreatedAt)
	})
	node.Replies = replies
	return node
}

// SortRoots orders root threads in place by the given mode. Sorting is
// stable: ties keep the incoming order.
func SortRoots(threads []*Thread, mode SortMode) {
	switch mode {
	case SortOldest:
		sort.SliceStable(threads, func(i, j int) bool {
			return threads[i].Comment.CreatedAt.Before(threads[j].Comment.CreatedAt)
		})
	case SortMostLiked:
		sort.SliceStable(threads, func(i, j int) bool {
			si := threads[i].Comment.LikesCount - threads[i].Comment.DislikesCount
			sj := threads[j].Comment.LikesCount - threads[j].Comment.DislikesCount
			return si > sj
		})
	default: // SortNewest
		sort.SliceStable(threads, func(i, j int) bool {
			return threads[i].Comment.CreatedAt.After(threads[j].Comment.CreatedAt)
		})
	}
}

// FilterThreads keeps root threads whose comment content or author name
// contains the query, case-insensitively. Filtering composes with
// sorting and is applied first.
func FilterThreads(threads []*Thread, query string) []*Thread {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return threads
	}
	filtered := make([]*Thread, 0, len(threads))
	for _, t := range threads {
		if strings.Contains(strings.ToLower(t.Comment.Content), query) ||
			strings.Contains(strings.ToLower(t.Comment.AuthorName), query) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
