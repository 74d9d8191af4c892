package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/credkeeper/internal/common"
)

// errRejected is returned by Verify and Update when the password does not match.
var errRejected = errors.New("credentials rejected")

func (a *App) readCredentials(passwordPrompt string) (string, []byte, error) {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := GetPassword(a.reader, a.ttyFd, passwordPrompt, a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

func (a *App) fail(ctx context.Context, op string, err error) error {
	if !isUserError(err) {
		a.logger.Error(ctx, "command failed", "op", op, "error", err)
	}
	a.println(userMessage(err))
	return err
}

func isUserError(err error) bool {
	return errors.Is(err, common.ErrInvalidPassword) ||
		errors.Is(err, common.ErrInvalidIdentifier) ||
		errors.Is(err, common.ErrDuplicateIdentifier) ||
		errors.Is(err, common.ErrIdentifierNotFound)
}

func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials("Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.Register(ctx, userName, password); err != nil {
		return a.fail(ctx, "register", err)
	}

	a.println("Registered.")
	return nil
}

// Verify checks a username/password pair. Unknown usernames and wrong
// passwords print the same message.
func (a *App) Verify(ctx context.Context) error {
	userName, password, err := a.readCredentials("Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.check(ctx, userName, password); err != nil {
		return err
	}

	a.println("Verified.")
	return nil
}

// check prints only on failure.
func (a *App) check(ctx context.Context, userName string, password []byte) error {
	ok, err := a.store.Verify(ctx, userName, password)
	if err != nil && !errors.Is(err, common.ErrIdentifierNotFound) {
		return a.fail(ctx, "verify", err)
	}
	if err != nil || !ok {
		a.println(msgInvalidCredentials)
		return errRejected
	}
	return nil
}

// Update changes a password after the current one has been confirmed.
func (a *App) Update(ctx context.Context) error {
	userName, current, err := a.readCredentials("Enter current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	if err := a.check(ctx, userName, current); err != nil {
		return err
	}

	next, err := GetPassword(a.reader, a.ttyFd, "Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.store.Update(ctx, userName, next); err != nil {
		return a.fail(ctx, "update", err)
	}

	a.println("Password updated.")
	return nil
}

func (a *App) Remove(ctx context.Context) error {
	userName, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	if err := a.store.Remove(ctx, userName); err != nil {
		return a.fail(ctx, "remove", err)
	}

	a.println("Removed.")
	return nil
}
