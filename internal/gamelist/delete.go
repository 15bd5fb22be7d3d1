package gamelist

import (
	"gamelist/internal/errors"
	"gamelist/internal/log"
)

type deleteState int

const (
	deleteConfirming deleteState = iota
	deleteAttempting
	deleteRetrying
	deleteAborted
	deleteDone
)

func (s deleteState) String() string {
	switch s {
	case deleteConfirming:
		return "confirming"
	case deleteAttempting:
		return "attempting"
	case deleteRetrying:
		return "retrying"
	case deleteAborted:
		return "aborted"
	case deleteDone:
		return "done"
	}
	return "unknown"
}

// removeFile deletes path after confirmation, offering a retry each time
// the delete fails. The catalog entry goes only once the file is gone.
func (d *Dispatcher) removeFile(path string) error {
	logger := d.logger.With(log.F("action", ActionRemove.String()), log.F("game", path))
	p := d.deps.Prompter

	state := deleteConfirming
	attempts := 0
	var lastErr error
	for {
		logger.Debugf("delete state %s", state)
		switch state {
		case deleteConfirming:
			ok := p.Confirm(Prompt{
				Title:   "Confirm",
				Message: "Are you sure you want to delete this file?\nYou won't be able to undo this!",
				Warning: true,
				Confirm: "Yes",
				Dismiss: "Cancel",
			})
			if !ok {
				return errors.ErrCancelled
			}
			state = deleteAttempting

		case deleteAttempting:
			attempts++
			if err := d.deps.Files.Remove(path); err != nil {
				lastErr = err
				logger.Warnf("delete attempt %d failed: %v", attempts, err)
				state = deleteRetrying
				continue
			}
			d.deps.Catalog.RemoveGame(path)
			if f, ok := d.deps.Lookup.(interface{ Forget(string) }); ok {
				f.Forget(path)
			}
			state = deleteDone

		case deleteRetrying:
			retry := p.RetryAbort(Prompt{
				Title: "Failed to delete",
				Message: "Failed to remove this file. Check that you have the permissions " +
					"required to delete the file or whether it's still in use.",
				Warning: true,
				Confirm: "Retry",
				Dismiss: "Abort",
			})
			if retry {
				state = deleteAttempting
			} else {
				state = deleteAborted
			}

		case deleteAborted:
			return errors.NewOperationError("remove", path, errors.DeleteFailed, lastErr)

		case deleteDone:
			logger.Infof("file deleted after %d attempt(s)", attempts)
			return nil
		}
	}
}
