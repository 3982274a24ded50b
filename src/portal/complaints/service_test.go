package complaints_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-stack/grievance-portal/src/portal/complaints"
	"github.com/civic-stack/grievance-portal/src/portal/perr"
	"github.com/civic-stack/grievance-portal/src/portal/storage"
	"github.com/civic-stack/grievance-portal/src/portal/types"
)

func newService() (*complaints.Service, *storage.Memory) {
	store := storage.NewMemory()
	return complaints.NewService(store), store
}

func TestSubmitPublicComplaint(t *testing.T) {
	svc, _ := newService()

	c, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionPublic,
		Subject:        "Pothole on Main St",
		Description:    "Deep pothole near the crossing, two weeks old.",
		SubmitterID:    "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, types.StatusPending, c.Status)
	require.NotNil(t, c.UserID)
	assert.Equal(t, "user-1", *c.UserID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.NotEmpty(t, c.ID)
}

// TestSubmitAnonymousDiscardsSubmitter covers the anonymity invariant: the
// submission type is authoritative, a caller-supplied identity is dropped.
func TestSubmitAnonymousDiscardsSubmitter(t *testing.T) {
	svc, _ := newService()

	c, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionAnonymous,
		Subject:        "Noise at night",
		Description:    "Construction noise past midnight.",
		SubmitterID:    "user-1", // must be ignored
	})
	require.NoError(t, err)
	assert.Nil(t, c.UserID)
	assert.Equal(t, types.SubmissionAnonymous, c.SubmissionType)
}

func TestSubmitAnonymityInvariant(t *testing.T) {
	svc, _ := newService()

	public, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionPublic,
		Subject:        "a", Description: "b", SubmitterID: "u1",
	})
	require.NoError(t, err)
	anon, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionAnonymous,
		Subject:        "a", Description: "b",
	})
	require.NoError(t, err)

	for _, c := range []*types.Complaint{public, anon} {
		assert.Equal(t, c.SubmissionType == types.SubmissionAnonymous, c.UserID == nil)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newService()

	cases := []struct {
		name string
		in   complaints.SubmitInput
	}{
		{"bad submission type", complaints.SubmitInput{SubmissionType: "secret", Subject: "a", Description: "b"}},
		{"empty subject", complaints.SubmitInput{SubmissionType: types.SubmissionAnonymous, Subject: "  ", Description: "b"}},
		{"empty description", complaints.SubmitInput{SubmissionType: types.SubmissionAnonymous, Subject: "a", Description: ""}},
		{"public without submitter", complaints.SubmitInput{SubmissionType: types.SubmissionPublic, Subject: "a", Description: "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(tc.in)
			assert.True(t, perr.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestSubmitStripsMarkup(t *testing.T) {
	svc, _ := newService()

	c, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionAnonymous,
		Subject:        "<script>alert(1)</script>Broken lamp",
		Description:    "The lamp at <b>5th street</b> is broken.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Broken lamp", c.Subject)
	assert.Equal(t, "The lamp at 5th street is broken.", c.Description)
}

// TestSetStatusAnyTransition checks the deliberate absence of a transition
// graph: each status is reachable from every other by admin discretion.
func TestSetStatusAnyTransition(t *testing.T) {
	svc, _ := newService()

	statuses := []string{types.StatusPending, types.StatusInProgress, types.StatusResolved}
	for _, from := range statuses {
		for _, to := range statuses {
			c, err := svc.Submit(complaints.SubmitInput{
				SubmissionType: types.SubmissionAnonymous,
				Subject:        "s", Description: "d",
			})
			require.NoError(t, err)
			_, err = svc.SetStatus(c.ID, from)
			require.NoError(t, err)

			got, err := svc.SetStatus(c.ID, to)
			require.NoError(t, err, "transition %s -> %s", from, to)
			assert.Equal(t, to, got.Status)
		}
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	svc, _ := newService()
	c, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionAnonymous, Subject: "s", Description: "d",
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(c.ID, "closed")
	assert.True(t, perr.IsValidation(err))
}

func TestSetStatusMissingComplaint(t *testing.T) {
	svc, _ := newService()
	_, err := svc.SetStatus("nope", types.StatusResolved)
	assert.True(t, perr.IsNotFound(err))
}

func TestMessageOrderingIsStable(t *testing.T) {
	svc, _ := newService()
	c, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionAnonymous, Subject: "s", Description: "d",
	})
	require.NoError(t, err)

	for _, body := range []string{"A", "B", "C"} {
		_, err := svc.AppendMessage(c.ID, body)
		require.NoError(t, err)
	}

	msgs, err := svc.ListMessages(c.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "A", msgs[0].Body)
	assert.Equal(t, "B", msgs[1].Body)
	assert.Equal(t, "C", msgs[2].Body)
}

func TestAppendMessageMissingComplaint(t *testing.T) {
	svc, _ := newService()
	_, err := svc.AppendMessage("nope", "hello")
	assert.True(t, perr.IsNotFound(err))
}

func TestAppendMessageDoesNotTouchStatus(t *testing.T) {
	svc, _ := newService()
	c, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionAnonymous, Subject: "s", Description: "d",
	})
	require.NoError(t, err)

	_, err = svc.AppendMessage(c.ID, "we are on it")
	require.NoError(t, err)

	got, err := svc.GetByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, got.Status)
}

func TestListMessagesEmptyThread(t *testing.T) {
	svc, _ := newService()
	c, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionAnonymous, Subject: "s", Description: "d",
	})
	require.NoError(t, err)

	msgs, err := svc.ListMessages(c.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestListForOwner(t *testing.T) {
	svc, _ := newService()

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(complaints.SubmitInput{
			SubmissionType: types.SubmissionPublic,
			Subject:        "mine", Description: "d", SubmitterID: "u1",
		})
		require.NoError(t, err)
	}
	_, err := svc.Submit(complaints.SubmitInput{
		SubmissionType: types.SubmissionPublic,
		Subject:        "theirs", Description: "d", SubmitterID: "u2",
	})
	require.NoError(t, err)

	mine, err := svc.ListForOwner("u1")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, c := range mine {
		assert.Equal(t, "u1", *c.UserID)
	}
}
