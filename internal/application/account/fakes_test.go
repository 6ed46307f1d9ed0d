package account_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

type fakeIdentity struct {
	mu       sync.Mutex
	reject   map[string]error
	events   *[]string
	calls    int
	inFlight int
	maxSeen  int
}

func (f *fakeIdentity) CreateAccount(ctx context.Context, email, password string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.events != nil {
		*f.events = append(*f.events, "create:"+email)
	}
	if err, ok := f.reject[email]; ok {
		return "", err
	}
	return "uid-" + email, nil
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email, password string) (domain.SignedInUser, error) {
	return domain.SignedInUser{}, errors.New("not implemented")
}

func (f *fakeIdentity) SignInWithCredential(ctx context.Context, credential domain.Credential) (domain.SignedInUser, error) {
	return domain.SignedInUser{}, errors.New("not implemented")
}

type fakeProfileStore struct {
	events   *[]string
	profiles []domain.Profile
	err      error
}

func (f *fakeProfileStore) PutProfile(ctx context.Context, profile domain.Profile) error {
	if f.events != nil {
		*f.events = append(*f.events, "profile:"+profile.UserID)
	}
	f.profiles = append(f.profiles, profile)
	return f.err
}

type fakeMetrics struct {
	outcomes []domain.OutcomeStatus
	runs     []domain.ReportKind
}

func (f *fakeMetrics) RecordOutcome(status domain.OutcomeStatus) {
	f.outcomes = append(f.outcomes, status)
}

func (f *fakeMetrics) RunFinished(kind domain.ReportKind) {
	f.runs = append(f.runs, kind)
}

type fakeReader struct {
	text  string
	data  []byte
	err   error
	reads []string
}

func (f *fakeReader) ReadText(ctx context.Context, sourcePath, encoding string) (string, error) {
	f.reads = append(f.reads, fmt.Sprintf("text:%s:%s", sourcePath, encoding))
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeReader) ReadBytes(ctx context.Context, sourcePath string) ([]byte, error) {
	f.reads = append(f.reads, "bytes:"+sourcePath)
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeDecoder struct {
	text string
	err  error
	got  []byte
}

func (f *fakeDecoder) FirstSheetCSV(data []byte) (string, error) {
	f.got = data
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
