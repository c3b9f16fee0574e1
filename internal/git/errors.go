package git

import (
	stderrors "errors"
	"strings"

	ggit "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

var (
	// ErrNoRemote is returned when the repository has no usable `origin` remote.
	ErrNoRemote = stderrors.New("could not find remote origin")
	// ErrNotRepository is returned when no repository encloses the directory.
	ErrNotRepository = stderrors.New("not a git repository")
)

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, dir string) error {
	if err == nil {
		return nil
	}

	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	cause := err
	msg := "git operation failed"
	switch {
	case stderrors.Is(err, ggit.ErrRepositoryNotExists):
		cause, msg = ErrNotRepository, ErrNotRepository.Error()
	case stderrors.Is(err, ggit.ErrRemoteNotFound), stderrors.Is(err, ErrNoRemote):
		cause, msg = ErrNoRemote, ErrNoRemote.Error()
	case strings.Contains(strings.ToLower(err.Error()), "permission denied"):
		msg = "repository is not readable"
	}

	return errors.GitError(msg).
		WithCause(cause).
		WithContext("op", op).
		WithContext("dir", dir).
		Build()
}
