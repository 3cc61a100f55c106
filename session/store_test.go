package session_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thedevz43/landrecords/internal/utils"
	"github.com/thedevz43/landrecords/session"
	"github.com/thedevz43/landrecords/session/snapshot"
	"github.com/thedevz43/landrecords/users"
	"github.com/thedevz43/landrecords/users/repofake"
)

const (
	testCitizenEmail = "rajesh.kumar@example.com"
	testSecret       = "demo"
	signingKey       = "test-signing-key"
)

// testFixture holds the store and its collaborators.
type testFixture struct {
	directory *repofake.FakeDirectory
	snapshots *snapshot.MemoryStore
	codec     *snapshot.Codec
	store     *session.Store
}

func setupTestFixture(t *testing.T, options ...session.Option) *testFixture {
	t.Helper()

	f := &testFixture{
		directory: repofake.NewFakeDirectory(),
		snapshots: snapshot.NewMemoryStore(),
	}

	codec, err := snapshot.NewCodec([]byte(signingKey))
	require.NoError(t, err)
	f.codec = codec

	f.seedUser(t, users.User{
		ID:      "1",
		Name:    "Rajesh Kumar",
		Email:   testCitizenEmail,
		Role:    users.RoleCitizen,
		Aadhaar: "XXXX-XXXX-4523",
		Phone:   "9876543210",
	})

	f.store = f.newStore(t, options...)
	return f
}

// newStore builds a fresh Store over the fixture's collaborators,
// simulating a process restart when called a second time.
func (f *testFixture) newStore(t *testing.T, options ...session.Option) *session.Store {
	t.Helper()

	seq := 0
	options = append([]session.Option{
		session.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("generated-%d", seq)
		}),
	}, options...)

	store, err := session.New(
		session.Repos{Directory: f.directory, Snapshots: f.snapshots},
		f.codec,
		options...,
	)
	require.NoError(t, err)
	return store
}

func (f *testFixture) seedUser(t *testing.T, user users.User) {
	t.Helper()

	hash, err := users.HashSecret(testSecret)
	require.NoError(t, err)
	require.NoError(t, f.directory.Create(context.Background(), users.DirectoryEntry{
		User:       user,
		SecretHash: hash,
	}))
}

func TestNewRequiresDependencies(t *testing.T) {
	f := setupTestFixture(t)

	_, err := session.New(session.Repos{Snapshots: f.snapshots}, f.codec)
	require.Error(t, err)

	_, err = session.New(session.Repos{Directory: f.directory}, f.codec)
	require.Error(t, err)

	_, err = session.New(session.Repos{Directory: f.directory, Snapshots: f.snapshots}, nil)
	require.Error(t, err)
}

func TestInitializeWithNoSnapshot(t *testing.T) {
	f := setupTestFixture(t)

	require.True(t, f.store.IsLoading(), "session loads until Initialize completes")
	f.store.Initialize(context.Background())

	require.False(t, f.store.IsLoading())
	require.False(t, f.store.IsAuthenticated())
}

func TestInitializeIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	f.store.Initialize(ctx)
	epoch := f.store.Epoch()
	f.store.Initialize(ctx)

	require.Equal(t, epoch, f.store.Epoch())
	require.False(t, f.store.IsLoading())
}

func TestSignInSuccessIsCaseInsensitive(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	result := f.store.SignIn(ctx, "Rajesh.Kumar@Example.com", testSecret)

	require.True(t, result.OK)
	current, ok := f.store.Current()
	require.True(t, ok)
	require.Equal(t, users.RoleCitizen, current.Role)
	require.Equal(t, "Rajesh Kumar", current.Name)
}

func TestSignInUnknownEmailFailsGenerically(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	result := f.store.SignIn(ctx, "unknown@example.com", testSecret)

	require.False(t, result.OK)
	require.Equal(t, session.ReasonInvalidCredentials, result.Reason)
	require.False(t, f.store.IsAuthenticated())
	require.False(t, f.store.IsLoading())
}

func TestSignInWrongSecretFailsWithSameReason(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	result := f.store.SignIn(ctx, testCitizenEmail, "wrong-secret")

	require.False(t, result.OK)
	require.Equal(t, session.ReasonInvalidCredentials, result.Reason)
}

func TestSignInShortSecretAlwaysFails(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	// Below the minimum length the directory is never consulted, so even
	// the correct account cannot match.
	for _, secret := range []string{"", "a", "abc"} {
		result := f.store.SignIn(ctx, testCitizenEmail, secret)
		require.False(t, result.OK, "secret %q", secret)
		require.Equal(t, session.ReasonInvalidCredentials, result.Reason)
	}
}

func TestSignInPersistsAcrossRestart(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	require.True(t, f.store.SignIn(ctx, testCitizenEmail, testSecret).OK)
	signedIn, ok := f.store.Current()
	require.True(t, ok)

	restarted := f.newStore(t)
	restarted.Initialize(ctx)

	restored, ok := restarted.Current()
	require.True(t, ok)
	require.Equal(t, signedIn, restored)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	result := f.store.SignUp(ctx, session.Registration{
		Name:   "Somebody Else",
		Email:  "RAJESH.KUMAR@example.com",
		Secret: "password123",
	})

	require.False(t, result.OK)
	require.Equal(t, session.ReasonEmailTaken, result.Reason)
	require.False(t, f.store.IsAuthenticated())
}

func TestSignUpDefaultsToCitizenAndRoundTrips(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	result := f.store.SignUp(ctx, session.Registration{
		Name:    "Meena Iyer",
		Email:   "Meena.Iyer@example.com",
		Secret:  "password123",
		Aadhaar: "XXXX-XXXX-9911",
		Phone:   "9000000001",
	})
	require.True(t, result.OK)

	created, ok := f.store.Current()
	require.True(t, ok)
	require.Equal(t, "generated-1", created.ID)
	require.Equal(t, users.RoleCitizen, created.Role)
	require.Equal(t, "meena.iyer@example.com", created.Email)

	// The new identity must also be able to sign in again.
	f.store.SignOut()
	require.True(t, f.store.SignIn(ctx, "meena.iyer@example.com", "password123").OK)

	// And the snapshot round-trips through a restart, field for field.
	restarted := f.newStore(t)
	restarted.Initialize(ctx)
	restored, ok := restarted.Current()
	require.True(t, ok)
	require.Equal(t, created, restored)
}

func TestSignOutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)
	require.True(t, f.store.SignIn(ctx, testCitizenEmail, testSecret).OK)

	f.store.SignOut()
	epoch := f.store.Epoch()
	f.store.SignOut()

	require.False(t, f.store.IsAuthenticated())
	require.Equal(t, epoch, f.store.Epoch(), "second sign-out is a no-op")

	_, present, err := f.snapshots.Get(ctx, snapshot.SessionKey)
	require.NoError(t, err)
	require.False(t, present)
}

func TestUpdateProfileMergesAndPersists(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)
	require.True(t, f.store.SignIn(ctx, testCitizenEmail, testSecret).OK)
	before, _ := f.store.Current()

	f.store.UpdateProfile(session.ProfileUpdate{Phone: utils.Ptr("9999999999")})

	after, ok := f.store.Current()
	require.True(t, ok)
	require.Equal(t, "9999999999", after.Phone)
	require.Equal(t, before.ID, after.ID)
	require.Equal(t, before.Role, after.Role)
	require.Equal(t, before.Name, after.Name)

	restarted := f.newStore(t)
	restarted.Initialize(ctx)
	restored, ok := restarted.Current()
	require.True(t, ok)
	require.Equal(t, "9999999999", restored.Phone)
}

func TestUpdateProfileWithEmptySessionIsNoOp(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	f.store.UpdateProfile(session.ProfileUpdate{Phone: utils.Ptr("9999999999")})

	require.False(t, f.store.IsAuthenticated())
	_, present, err := f.snapshots.Get(ctx, snapshot.SessionKey)
	require.NoError(t, err)
	require.False(t, present)
}

func TestInitializeDiscardsTamperedSnapshot(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)
	require.True(t, f.store.SignIn(ctx, testCitizenEmail, testSecret).OK)

	value, present, err := f.snapshots.Get(ctx, snapshot.SessionKey)
	require.NoError(t, err)
	require.True(t, present)
	tampered := []byte(value)
	tampered[len(tampered)/2] ^= 0x01
	require.NoError(t, f.snapshots.Set(ctx, snapshot.SessionKey, string(tampered)))

	restarted := f.newStore(t)
	restarted.Initialize(ctx)

	require.False(t, restarted.IsAuthenticated())
	require.False(t, restarted.IsLoading())
}

func TestInitializeDiscardsGarbageSnapshot(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	require.NoError(t, f.snapshots.Set(ctx, snapshot.SessionKey, "not a snapshot"))

	f.store.Initialize(ctx)

	require.False(t, f.store.IsAuthenticated())
	require.False(t, f.store.IsLoading())
}

func TestOnChangeFiresPerCompletedMutation(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	changes := 0
	f.store.OnChange(func() { changes++ })

	f.store.Initialize(ctx)
	require.Equal(t, 1, changes)

	require.False(t, f.store.SignIn(ctx, testCitizenEmail, "bad").OK)
	require.Equal(t, 1, changes, "failed sign-in mutates nothing")

	require.True(t, f.store.SignIn(ctx, testCitizenEmail, testSecret).OK)
	require.Equal(t, 2, changes)

	f.store.UpdateProfile(session.ProfileUpdate{Name: utils.Ptr("R. Kumar")})
	require.Equal(t, 3, changes)

	f.store.SignOut()
	require.Equal(t, 4, changes)

	f.store.SignOut()
	require.Equal(t, 4, changes, "idempotent sign-out does not re-notify")
}

// failingStore rejects every write, so tests can exercise the path where the
// snapshot cannot be persisted.
type failingStore struct {
	snapshot.MemoryStore
}

func (s *failingStore) Set(context.Context, string, string) error {
	return fmt.Errorf("disk full")
}

func (s *failingStore) Delete(context.Context, string) error {
	return fmt.Errorf("disk full")
}

func TestSessionSurvivesSnapshotWriteFailure(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	store, err := session.New(
		session.Repos{Directory: f.directory, Snapshots: &failingStore{}},
		f.codec,
	)
	require.NoError(t, err)
	store.Initialize(ctx)

	// The in-memory session is authoritative; a failed snapshot write only
	// costs persistence.
	require.True(t, store.SignIn(ctx, testCitizenEmail, testSecret).OK)
	require.True(t, store.IsAuthenticated())

	store.SignOut()
	require.False(t, store.IsAuthenticated(), "sign-out cannot fail")
}

// blockingDirectory parks FindByEmail until released, so tests can observe
// the loading flag with operations genuinely in flight.
type blockingDirectory struct {
	inner   users.Directory
	started chan struct{}
	release chan struct{}
}

func (d *blockingDirectory) FindByEmail(ctx context.Context, email string) (*users.DirectoryEntry, error) {
	d.started <- struct{}{}
	<-d.release
	return d.inner.FindByEmail(ctx, email)
}

func (d *blockingDirectory) Create(ctx context.Context, entry users.DirectoryEntry) error {
	return d.inner.Create(ctx, entry)
}

func (d *blockingDirectory) List(ctx context.Context) ([]users.User, error) {
	return d.inner.List(ctx)
}

func TestLoadingReflectsOverlappingSignIns(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	blocking := &blockingDirectory{
		inner:   f.directory,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store, err := session.New(
		session.Repos{Directory: blocking, Snapshots: f.snapshots},
		f.codec,
	)
	require.NoError(t, err)
	store.Initialize(ctx)

	results := make(chan session.Result, 2)
	for i := 0; i < 2; i++ {
		go func() {
			results <- store.SignIn(ctx, testCitizenEmail, testSecret)
		}()
	}

	<-blocking.started
	<-blocking.started
	require.True(t, store.IsLoading(), "both sign-ins in flight")

	blocking.release <- struct{}{}
	first := <-results
	require.True(t, first.OK)
	require.True(t, store.IsLoading(), "one sign-in still outstanding")

	blocking.release <- struct{}{}
	second := <-results
	require.True(t, second.OK)
	require.False(t, store.IsLoading(), "all operations resolved")

	// Last-resolved-wins: both resolved to the same identity here, and the
	// session holds it.
	require.True(t, store.IsAuthenticated())
}

func TestEpochDetectsStaleResolutions(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	f.store.Initialize(ctx)

	before := f.store.Epoch()
	require.True(t, f.store.SignIn(ctx, testCitizenEmail, testSecret).OK)
	after := f.store.Epoch()

	require.Greater(t, after, before, "a caller holding the old epoch can tell the session moved")
}
