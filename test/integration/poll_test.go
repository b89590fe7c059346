package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

func createPoll(t *testing.T, app *TestApp, token string, question string, options ...string) int64 {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"question": question, "options": options})
	resp := app.doJSON(t, "POST", "/api/polls", token, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		PollID int64 `json:"poll_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created.PollID
}

func getPoll(t *testing.T, app *TestApp, pollID int64) domain.PollView {
	t.Helper()

	resp := app.doJSON(t, "GET", fmt.Sprintf("/api/polls/%d", pollID), "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view domain.PollView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}

func castVote(t *testing.T, app *TestApp, token string, pollID, optionID int64) *http.Response {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"option_id": optionID})
	return app.doJSON(t, "POST", fmt.Sprintf("/api/polls/%d/votes", pollID), token, body)
}

// TestPollFlow covers the basic lifecycle: create, fetch with counts, vote,
// reject the duplicate vote.
func TestPollFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorToken := app.createUserAndToken(t)
	pollID := createPoll(t, app, creatorToken, "Tea or coffee?", "Tea", "Coffee")

	view := getPoll(t, app, pollID)
	require.Len(t, view.Options, 2)
	assert.Equal(t, "Tea or coffee?", view.Question)
	assert.Equal(t, 0, view.TotalVotes())

	_, voterToken := app.createUserAndToken(t)
	resp := castVote(t, app, voterToken, pollID, view.Options[0].ID)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	view = getPoll(t, app, pollID)
	assert.Equal(t, 1, view.Options[0].VoteCount)
	assert.Equal(t, 0, view.Options[1].VoteCount)

	// Same user, other option: one vote per poll.
	resp = castVote(t, app, voterToken, pollID, view.Options[1].ID)
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unauthenticated votes are rejected before reaching the service.
	resp = castVote(t, app, "", pollID, view.Options[0].ID)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestPollDeletionGuard verifies the 10-vote threshold: deletable at 9,
// locked at 10, and the cascade removes every dependent row.
func TestPollDeletionGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, creatorToken := app.createUserAndToken(t)

	// 9 votes: deletion still allowed.
	pollID := createPoll(t, app, creatorToken, "Nine votes?", "a", "b")
	view := getPoll(t, app, pollID)
	for i := 0; i < 9; i++ {
		_, token := app.createUserAndToken(t)
		resp := castVote(t, app, token, pollID, view.Options[0].ID)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	root := postComment(t, app, creatorToken, fmt.Sprintf("/api/polls/%d/comments", pollID), "will vanish")
	reply := postComment(t, app, creatorToken, fmt.Sprintf("/api/comments/%d/replies", root), "nested")

	resp := app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%d", pollID), creatorToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, q := range []struct {
		table string
		where string
		arg   int64
	}{
		{"polls", "id", pollID},
		{"poll_options", "poll_id", pollID},
		{"votes", "poll_id", pollID},
		{"comments", "id", root},
		{"comments", "id", reply},
	} {
		var count int
		err := app.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", q.table, q.where), q.arg).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count, "%s rows should be gone", q.table)
	}

	// 10 votes: deletion locked.
	pollID = createPoll(t, app, creatorToken, "Ten votes?", "a", "b")
	view = getPoll(t, app, pollID)
	for i := 0; i < 10; i++ {
		_, token := app.createUserAndToken(t)
		resp := castVote(t, app, token, pollID, view.Options[0].ID)
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp = app.doJSON(t, "DELETE", fmt.Sprintf("/api/polls/%d", pollID), creatorToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	view = getPoll(t, app, pollID)
	assert.Equal(t, 10, view.TotalVotes())
}

// TestListPollsFiltersAndSorts drives the listing end to end: three polls,
// one vote, one comment, checked through each filter and the vote sorts.
func TestListPollsFiltersAndSorts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, anaToken := app.createUserAndToken(t)
	_, bobToken := app.createUserAndToken(t)

	mine := createPoll(t, app, anaToken, "Mine?", "a", "b")
	votedOn := createPoll(t, app, bobToken, "Voted on?", "a", "b")
	commentedOn := createPoll(t, app, bobToken, "Commented on?", "a", "b")

	view := getPoll(t, app, votedOn)
	resp := castVote(t, app, anaToken, votedOn, view.Options[0].ID)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	postComment(t, app, anaToken, fmt.Sprintf("/api/polls/%d/comments", commentedOn), "interesting")

	list := func(query string, token string) []domain.PollView {
		resp := app.doJSON(t, "GET", "/api/polls"+query, token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var views []domain.PollView
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
		return views
	}

	ids := func(views []domain.PollView) []int64 {
		out := make([]int64, len(views))
		for i, v := range views {
			out[i] = v.ID
		}
		return out
	}

	assert.Equal(t, []int64{mine, votedOn, commentedOn}, ids(list("", anaToken)))
	assert.Equal(t, []int64{mine, commentedOn}, ids(list("?filter=unvoted", anaToken)))
	assert.Equal(t, []int64{mine}, ids(list("?filter=mine", anaToken)))
	assert.Equal(t, []int64{votedOn, commentedOn}, ids(list("?filter=interacted", anaToken)))

	// votedOn has the only vote; ties keep creation order.
	assert.Equal(t, []int64{votedOn, mine, commentedOn}, ids(list("?sort=votes_desc", anaToken)))
	assert.Equal(t, []int64{mine, commentedOn, votedOn}, ids(list("?sort=votes_asc", anaToken)))
	assert.Equal(t, []int64{votedOn, mine, commentedOn}, ids(list("?sort=completed_first", anaToken)))

	// Anonymous readers get the unfiltered listing.
	assert.Equal(t, []int64{mine, votedOn, commentedOn}, ids(list("?filter=unvoted", "")))
}
