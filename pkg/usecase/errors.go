package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/museum-lab/engagedesk/pkg/domain/model"
	"github.com/museum-lab/engagedesk/pkg/service/monday"
)

// Sentinel errors for the use case layer
var (
	ErrNoEngagement     = goerr.New("no engagement selected")
	ErrCatalogNotLoaded = goerr.New("catalog has not been loaded yet")
)

// ErrorKind is the machine-readable classification surfaced next to the
// user-facing message.
type ErrorKind string

const (
	// KindNetwork: the remote service could not be reached.
	KindNetwork ErrorKind = "network"
	// KindRemote: the remote service executed the call and rejected it.
	KindRemote ErrorKind = "remote"
	// KindConfig: server-side configuration is missing or broken.
	KindConfig ErrorKind = "config"
	// KindValidation: the request was invalid before any network call.
	KindValidation ErrorKind = "validation"
	// KindUnknown: anything else.
	KindUnknown ErrorKind = "unknown"
)

// KindOf classifies an error into the taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, model.ErrMissingField),
		errors.Is(err, model.ErrInvalidEmail),
		errors.Is(err, model.ErrInvalidDate),
		errors.Is(err, model.ErrCandidateMismatch),
		errors.Is(err, model.ErrCriterionUnslotted),
		errors.Is(err, model.ErrUnknownCriterion),
		errors.Is(err, model.ErrUnknownItem),
		errors.Is(err, model.ErrSlotOutOfRange),
		errors.Is(err, ErrNoEngagement):
		return KindValidation
	case errors.Is(err, monday.ErrRemoteRejected):
		return KindRemote
	case errors.Is(err, monday.ErrTransport):
		return KindNetwork
	case errors.Is(err, ErrCatalogNotLoaded):
		return KindConfig
	default:
		return KindUnknown
	}
}

// UserMessage reduces an error to the single message shown to the user.
// Remote rejections surface the remote's first error message verbatim;
// transport failures collapse to a generic connectivity message.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindRemote:
		if msg, ok := monday.RemoteMessage(err); ok {
			return msg
		}
		return err.Error()
	case KindNetwork:
		return "could not reach the board service; please try again"
	case KindConfig:
		return "the service is not configured correctly; please contact an administrator"
	default:
		return err.Error()
	}
}
