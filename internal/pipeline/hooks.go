package pipeline

import (
	"context"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/response"
)

// ClassifyError replaces the stored failure with its classified form.
// Register it first among the onError hooks that care about the taxonomy.
func ClassifyError[E any](_ context.Context, req *Request[E]) error {
	req.Err = httperr.Classify(req.Err)
	return nil
}

// ErrorResponse assigns the envelope built from the classified failure.
func ErrorResponse[E any](_ context.Context, req *Request[E]) error {
	env, err := response.Error(httperr.Classify(req.Err))
	if err != nil {
		return err
	}
	req.Respond(env)
	return nil
}

// SuccessResponse assigns the envelope built from the pending response value
// and status.
func SuccessResponse[E any](_ context.Context, req *Request[E]) error {
	env, err := successEnvelope(req)
	if err != nil {
		return err
	}
	req.Respond(env)
	return nil
}
