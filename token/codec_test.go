package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Paul200287/GradeTracker/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "test-session-secret"
	testSubjectID = "user-1"
)

// testClock is a settable clock; whole seconds keep JWT NumericDate rounding out of the way.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCodec(t *testing.T, clock *testClock) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec([]byte(testSecret), token.WithNowFunc(clock.Now))
	require.NoError(t, err)
	return codec
}

func TestNewCodec_RejectsEmptySecret(t *testing.T) {
	_, err := token.NewCodec(nil)
	require.Error(t, err)
}

func TestCodec_IssueVerify(t *testing.T) {
	clock := newTestClock()
	codec := newTestCodec(t, clock)

	for _, ttl := range []time.Duration{time.Second, time.Hour, 7 * 24 * time.Hour} {
		t.Run(ttl.String(), func(t *testing.T) {
			raw, err := codec.Issue(testSubjectID, ttl)
			require.NoError(t, err)
			require.Len(t, strings.Split(raw, "."), 3)

			payload, ok := codec.Verify(raw)
			require.True(t, ok)
			require.Equal(t, testSubjectID, payload.SubjectID)
			require.True(t, payload.ExpiresAt.Equal(clock.Now().Add(ttl)))
			require.True(t, payload.IssuedAt.Equal(clock.Now()))
			require.NotEmpty(t, payload.ID)
		})
	}
}

func TestCodec_IssueValidatesInput(t *testing.T) {
	codec := newTestCodec(t, newTestClock())

	_, err := codec.Issue("", time.Hour)
	require.Error(t, err)

	_, err = codec.Issue(testSubjectID, 0)
	require.Error(t, err)
}

func TestCodec_Expiry(t *testing.T) {
	const ttl = time.Hour

	t.Run("valid just before expiry", func(t *testing.T) {
		clock := newTestClock()
		codec := newTestCodec(t, clock)
		raw, err := codec.Issue(testSubjectID, ttl)
		require.NoError(t, err)

		clock.Advance(ttl - time.Second)
		_, ok := codec.Verify(raw)
		require.True(t, ok)
	})

	t.Run("invalid at expiry", func(t *testing.T) {
		clock := newTestClock()
		codec := newTestCodec(t, clock)
		raw, err := codec.Issue(testSubjectID, ttl)
		require.NoError(t, err)

		clock.Advance(ttl)
		_, ok := codec.Verify(raw)
		require.False(t, ok)
	})

	t.Run("invalid after expiry", func(t *testing.T) {
		clock := newTestClock()
		codec := newTestCodec(t, clock)
		raw, err := codec.Issue(testSubjectID, ttl)
		require.NoError(t, err)

		clock.Advance(ttl + 24*time.Hour)
		_, ok := codec.Verify(raw)
		require.False(t, ok)
	})
}

func TestCodec_Tampering(t *testing.T) {
	codec := newTestCodec(t, newTestClock())
	raw, err := codec.Issue(testSubjectID, time.Hour)
	require.NoError(t, err)

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		return string(b)
	}

	headerEnd := strings.Index(raw, ".")
	signatureStart := strings.LastIndex(raw, ".") + 1

	positions := map[string]int{
		"header":          1,
		"payload":         headerEnd + 5,
		"signature start": signatureStart,
		"signature end":   len(raw) - 1,
	}
	for name, i := range positions {
		t.Run(name, func(t *testing.T) {
			_, ok := codec.Verify(flip(raw, i))
			require.False(t, ok)
		})
	}
}

func TestCodec_RejectsForeignTokens(t *testing.T) {
	clock := newTestClock()
	codec := newTestCodec(t, clock)

	t.Run("empty", func(t *testing.T) {
		_, ok := codec.Verify("")
		require.False(t, ok)
	})

	t.Run("malformed", func(t *testing.T) {
		_, ok := codec.Verify("not-a-token")
		require.False(t, ok)
	})

	t.Run("different secret", func(t *testing.T) {
		other, err := token.NewCodec([]byte("another-secret"), token.WithNowFunc(clock.Now))
		require.NoError(t, err)
		raw, err := other.Issue(testSubjectID, time.Hour)
		require.NoError(t, err)

		_, ok := codec.Verify(raw)
		require.False(t, ok)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   testSubjectID,
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, ok := codec.Verify(raw)
		require.False(t, ok)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   testSubjectID,
			ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, ok := codec.Verify(raw)
		require.False(t, ok)
	})

	t.Run("missing expiry", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: testSubjectID}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, ok := codec.Verify(raw)
		require.False(t, ok)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour))}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, ok := codec.Verify(raw)
		require.False(t, ok)
	})
}

func TestCodec_ReissueKeepsIdentity(t *testing.T) {
	clock := newTestClock()
	codec := newTestCodec(t, clock)

	raw, err := codec.Issue(testSubjectID, time.Hour)
	require.NoError(t, err)
	original, ok := codec.Verify(raw)
	require.True(t, ok)

	clock.Advance(10 * time.Minute)
	renewed, err := codec.Reissue(original, time.Hour)
	require.NoError(t, err)

	payload, ok := codec.Verify(renewed)
	require.True(t, ok)
	require.Equal(t, original.SubjectID, payload.SubjectID)
	require.Equal(t, original.ID, payload.ID)
	require.True(t, payload.ExpiresAt.After(original.ExpiresAt))
}

func TestCodec_ReissueStrictlyExtendsExpiry(t *testing.T) {
	t.Run("same instant", func(t *testing.T) {
		clock := newTestClock()
		codec := newTestCodec(t, clock)

		raw, err := codec.Issue(testSubjectID, time.Hour)
		require.NoError(t, err)
		original, ok := codec.Verify(raw)
		require.True(t, ok)

		renewed, err := codec.Reissue(original, time.Hour)
		require.NoError(t, err)
		require.NotEqual(t, raw, renewed)

		payload, ok := codec.Verify(renewed)
		require.True(t, ok)
		require.True(t, payload.ExpiresAt.After(original.ExpiresAt))
		require.Equal(t, original.ID, payload.ID)
	})

	t.Run("sub-second steps", func(t *testing.T) {
		clock := newTestClock()
		codec := newTestCodec(t, clock)

		raw, err := codec.Issue(testSubjectID, time.Hour)
		require.NoError(t, err)
		current, ok := codec.Verify(raw)
		require.True(t, ok)

		for range 5 {
			clock.Advance(150 * time.Millisecond)
			raw, err = codec.Reissue(current, time.Hour)
			require.NoError(t, err)
			next, ok := codec.Verify(raw)
			require.True(t, ok)
			require.True(t, next.ExpiresAt.After(current.ExpiresAt))
			require.True(t, next.ExpiresAt.Equal(clock.Now().Add(time.Hour)))
			current = next
		}
	})

	t.Run("real clock", func(t *testing.T) {
		codec, err := token.NewCodec([]byte(testSecret))
		require.NoError(t, err)

		raw, err := codec.Issue(testSubjectID, time.Hour)
		require.NoError(t, err)
		original, ok := codec.Verify(raw)
		require.True(t, ok)

		renewed, err := codec.Reissue(original, time.Hour)
		require.NoError(t, err)
		require.NotEqual(t, raw, renewed)
		payload, ok := codec.Verify(renewed)
		require.True(t, ok)
		require.True(t, payload.ExpiresAt.After(original.ExpiresAt))
	})
}

func TestCodec_ExpiryAtMillisecondPrecision(t *testing.T) {
	clock := newTestClock()
	codec := newTestCodec(t, clock)

	clock.Advance(400 * time.Millisecond)
	raw, err := codec.Issue(testSubjectID, time.Second)
	require.NoError(t, err)

	clock.Advance(999 * time.Millisecond)
	_, ok := codec.Verify(raw)
	require.True(t, ok)

	// exp is rounded up to the next second, expires_at still rules.
	clock.Advance(time.Millisecond)
	_, ok = codec.Verify(raw)
	require.False(t, ok)
}
