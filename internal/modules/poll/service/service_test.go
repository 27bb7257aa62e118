package poll

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"nga.at/communityforum/internal/entity"
	pollDto "nga.at/communityforum/internal/modules/poll/dto"
	pollRepo "nga.at/communityforum/internal/modules/poll/repository"
	"nga.at/communityforum/pkg/apperror"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Poll{},
		&entity.PollOption{},
		&entity.UserVote{},
	))
	return db
}

func newTestService(t *testing.T) (PollService, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	return NewPollService(pollRepo.NewPollRepository(db)), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()

	user := &entity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPoll(t *testing.T, svc PollService, creatorID uuid.UUID, options ...string) *pollDto.PollDetailResponse {
	t.Helper()

	poll, err := svc.CreatePoll(context.Background(), creatorID, pollDto.CreatePollRequest{
		Title:   "Favorite color?",
		Options: options,
	})
	require.NoError(t, err)
	return poll
}

func TestCreatePollWithOptions(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")

	poll := createPoll(t, svc, creator.ID, "Red", "Green", "Blue")

	assert.Equal(t, "Favorite color?", poll.Poll.Title)
	assert.Equal(t, "alice", poll.Poll.CreatorName)
	assert.True(t, poll.Poll.IsPublic)
	assert.True(t, poll.Poll.IsActive)
	assert.Equal(t, "multiple_choice", poll.Poll.PollType)
	require.Len(t, poll.Options, 3)

	// Options keep their submitted order.
	assert.Equal(t, "Red", poll.Options[0].OptionText)
	assert.Equal(t, "Green", poll.Options[1].OptionText)
	assert.Equal(t, "Blue", poll.Options[2].OptionText)
	assert.Equal(t, int64(0), poll.TotalVotes)
}

func TestCreatePollRejectsSingleOption(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")

	_, err := svc.CreatePoll(context.Background(), creator.ID, pollDto.CreatePollRequest{
		Title:   "Pointless?",
		Options: []string{"Yes"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	var pollCount, optionCount int64
	require.NoError(t, db.Model(&entity.Poll{}).Count(&pollCount).Error)
	require.NoError(t, db.Model(&entity.PollOption{}).Count(&optionCount).Error)
	assert.Equal(t, int64(0), pollCount)
	assert.Equal(t, int64(0), optionCount)
}

func TestGetPollsListsOnlyPublicActive(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")

	visible := createPoll(t, svc, creator.ID, "A", "B")

	private := false
	_, err := svc.CreatePoll(context.Background(), creator.ID, pollDto.CreatePollRequest{
		Title:    "Private",
		Options:  []string{"A", "B"},
		IsPublic: &private,
	})
	require.NoError(t, err)

	closed := createPoll(t, svc, creator.ID, "A", "B")
	inactive := false
	_, err = svc.UpdatePoll(context.Background(), creator.ID, closed.Poll.ID, pollDto.UpdatePollRequest{IsActive: &inactive})
	require.NoError(t, err)

	polls, err := svc.GetPolls(context.Background())
	require.NoError(t, err)
	require.Len(t, polls, 1)
	assert.Equal(t, visible.Poll.ID, polls[0].ID)

	// The creator still sees all three in their own listing.
	mine, err := svc.GetMyPolls(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestVoteOncePerUser(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")
	voter := seedUser(t, db, "bob")

	poll := createPoll(t, svc, creator.ID, "Red", "Green")
	ctx := context.Background()

	err := svc.Vote(ctx, voter.ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[0].ID})
	require.NoError(t, err)

	// Second vote is rejected, even for a different option.
	err = svc.Vote(ctx, voter.ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[1].ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	var count int64
	require.NoError(t, db.Model(&entity.UserVote{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestVoteValidation(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")
	voter := seedUser(t, db, "bob")
	ctx := context.Background()

	poll := createPoll(t, svc, creator.ID, "Red", "Green")
	otherPoll := createPoll(t, svc, creator.ID, "Cat", "Dog")

	// Unknown poll.
	err := svc.Vote(ctx, voter.ID, uuid.New(), pollDto.VoteRequest{OptionID: poll.Options[0].ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Option belongs to another poll.
	err = svc.Vote(ctx, voter.ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: otherPoll.Options[0].ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)

	// Closed poll reads as missing.
	inactive := false
	_, err = svc.UpdatePoll(ctx, creator.ID, poll.Poll.ID, pollDto.UpdatePollRequest{IsActive: &inactive})
	require.NoError(t, err)
	err = svc.Vote(ctx, voter.ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[0].ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestVoteOnEndedPoll(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")
	voter := seedUser(t, db, "bob")
	ctx := context.Background()

	ended := time.Now().Add(-time.Hour)
	poll, err := svc.CreatePoll(ctx, creator.ID, pollDto.CreatePollRequest{
		Title:   "Too late",
		Options: []string{"A", "B"},
		EndDate: &ended,
	})
	require.NoError(t, err)

	err = svc.Vote(ctx, voter.ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[0].ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestPollResultsPercentages(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")
	ctx := context.Background()

	poll := createPoll(t, svc, creator.ID, "Red", "Green", "Blue")

	voters := []*entity.User{
		seedUser(t, db, "bob"),
		seedUser(t, db, "carol"),
		seedUser(t, db, "dave"),
	}
	require.NoError(t, svc.Vote(ctx, voters[0].ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[0].ID}))
	require.NoError(t, svc.Vote(ctx, voters[1].ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[0].ID}))
	require.NoError(t, svc.Vote(ctx, voters[2].ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[1].ID}))

	results, err := svc.GetPollResults(ctx, poll.Poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), results.TotalVotes)
	require.Len(t, results.Results, 3)

	assert.Equal(t, int64(2), results.Results[0].VoteCount)
	require.NotNil(t, results.Results[0].Percentage)
	assert.InDelta(t, 66.67, *results.Results[0].Percentage, 0.001)

	assert.Equal(t, int64(1), results.Results[1].VoteCount)
	require.NotNil(t, results.Results[1].Percentage)
	assert.InDelta(t, 33.33, *results.Results[1].Percentage, 0.001)

	assert.Equal(t, int64(0), results.Results[2].VoteCount)
	require.NotNil(t, results.Results[2].Percentage)
	assert.Zero(t, *results.Results[2].Percentage)
}

func TestPollResultsNoVotes(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")

	poll := createPoll(t, svc, creator.ID, "Red", "Green")

	results, err := svc.GetPollResults(context.Background(), poll.Poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), results.TotalVotes)
	for _, result := range results.Results {
		assert.Nil(t, result.Percentage)
	}
}

func TestGetPollByIDIncludesUserVote(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")
	voter := seedUser(t, db, "bob")
	ctx := context.Background()

	poll := createPoll(t, svc, creator.ID, "Red", "Green")
	require.NoError(t, svc.Vote(ctx, voter.ID, poll.Poll.ID, pollDto.VoteRequest{OptionID: poll.Options[1].ID}))

	detail, err := svc.GetPollByID(ctx, poll.Poll.ID, &voter.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.UserVote)
	assert.Equal(t, poll.Options[1].ID, *detail.UserVote)
	assert.Equal(t, int64(1), detail.TotalVotes)

	// Anonymous callers get no vote marker.
	detail, err = svc.GetPollByID(ctx, poll.Poll.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, detail.UserVote)
}

func TestUpdatePollCreatorOnly(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "bob")
	ctx := context.Background()

	poll := createPoll(t, svc, creator.ID, "Red", "Green")

	title := "Renamed"
	_, err := svc.UpdatePoll(ctx, stranger.ID, poll.Poll.ID, pollDto.UpdatePollRequest{Title: &title})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.UpdatePoll(ctx, creator.ID, poll.Poll.ID, pollDto.UpdatePollRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	// Untouched fields stay as they were.
	assert.True(t, updated.IsActive)
}

func TestDeletePollCreatorOnly(t *testing.T) {
	svc, db := newTestService(t)
	creator := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "bob")
	ctx := context.Background()

	poll := createPoll(t, svc, creator.ID, "Red", "Green")

	err := svc.DeletePoll(ctx, stranger.ID, poll.Poll.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, svc.DeletePoll(ctx, creator.ID, poll.Poll.ID))

	_, err = svc.GetPollByID(ctx, poll.Poll.ID, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
