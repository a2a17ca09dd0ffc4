package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerassist/backend/domain"
)

// taskRow feeds scanTask a fixed column tuple, with the pending_otp
// payload under test control.
type taskRow struct {
	otp []byte
	err error
}

func (r taskRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	now := time.Now()
	*(dest[0].(*string)) = "t1"
	*(dest[1].(*string)) = "Fix the sink"
	*(dest[2].(*string)) = "Kitchen sink is leaking"
	*(dest[3].(*string)) = "14:00"
	*(dest[4].(*time.Time)) = now
	*(dest[5].(*float64)) = 25
	*(dest[6].(*string)) = "Dorm B"
	*(dest[7].(*string)) = string(domain.CategoryPlumbing)
	*(dest[8].(*int)) = 1
	*(dest[9].(*string)) = "owner@x.com"
	*(dest[10].(*string)) = string(domain.StatusPendingVerification)
	*(dest[11].(*int)) = 0
	*(dest[12].(*[]string)) = []string{"a@x.com"}
	*(dest[13].(*[]string)) = []string{"a@x.com"}
	*(dest[14].(*[]byte)) = r.otp
	*(dest[15].(*time.Time)) = now
	*(dest[16].(*time.Time)) = now
	return nil
}

func TestScanTask(t *testing.T) {
	t.Run("Valid pending code is restored", func(t *testing.T) {
		task, err := scanTask(taskRow{
			otp: []byte(`{"code":"482913","worker_email":"a@x.com","expires_at":"2026-08-30T12:30:00Z","attempts":2}`),
		})
		require.NoError(t, err)

		require.NotNil(t, task.PendingOTP)
		assert.Equal(t, "482913", task.PendingOTP.Code)
		assert.Equal(t, "a@x.com", task.PendingOTP.WorkerEmail)
		assert.Equal(t, 2, task.PendingOTP.Attempts)
	})

	t.Run("No pending code", func(t *testing.T) {
		task, err := scanTask(taskRow{})
		require.NoError(t, err)
		assert.Nil(t, task.PendingOTP)
	})

	t.Run("Corrupt pending code is an error, not a missing code", func(t *testing.T) {
		_, err := scanTask(taskRow{otp: []byte(`{"code":`)})
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
	})

	t.Run("Missing row maps to task not found", func(t *testing.T) {
		_, err := scanTask(taskRow{err: pgx.ErrNoRows})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}
