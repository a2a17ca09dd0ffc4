package mail

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerassist/backend/internal/outbox"
)

func TestRender(t *testing.T) {
	expiry := time.Date(2026, 8, 30, 12, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		msg        outbox.Message
		expSubject string
		expInBody  []string
	}{
		"Acceptance": {
			msg:        outbox.Message{Kind: outbox.KindAcceptance, TaskTitle: "Fix the sink"},
			expSubject: `You were selected for "Fix the sink"`,
			expInBody:  []string{"Fix the sink", "accepted your application"},
		},
		"Completion code carries the actual expiry": {
			msg:        outbox.Message{Kind: outbox.KindCompletionCode, TaskTitle: "Fix the sink", Code: "482913", ExpiresAt: expiry},
			expSubject: `Completion code for "Fix the sink"`,
			expInBody:  []string{"482913", "12:30 UTC on 30 Aug 2026"},
		},
		"Completion code without expiry omits the note": {
			msg:        outbox.Message{Kind: outbox.KindCompletionCode, TaskTitle: "Fix the sink", Code: "482913"},
			expSubject: `Completion code for "Fix the sink"`,
			expInBody:  []string{"482913"},
		},
		"Password reset": {
			msg:        outbox.Message{Kind: outbox.KindPasswordReset, Code: "109244", ExpiresAt: expiry},
			expSubject: "Your password reset code",
			expInBody:  []string{"109244", "12:30 UTC on 30 Aug 2026"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			subject, body, err := render(test.msg)
			require.NoError(t, err)

			assert.Equal(t, test.expSubject, subject)
			for _, fragment := range test.expInBody {
				assert.Contains(t, body, fragment)
			}
		})
	}

	t.Run("Unknown kind is rejected", func(t *testing.T) {
		_, _, err := render(outbox.Message{Kind: "carrier_pigeon"})
		assert.Error(t, err)
	})
}
