// Package httperr is the error taxonomy used at the edge of every function
// handler: a closed catalogue of canonical HTTP failures and the classifier
// that maps arbitrary errors onto it.
//
// # Taxonomy
//
// Each built-in variant fixes the status code and name and defaults the
// message to the name:
//
//	Status | Constructor          | Name
//	-------|----------------------|----------------------
//	400    | BadRequest           | Bad Request
//	401    | Unauthorized         | Unauthorized
//	403    | Forbidden            | Forbidden
//	404    | NotFound             | Not Found
//	409    | Conflict             | Conflict
//	422    | UnprocessableEntity  | Unprocessable Entity
//	429    | TooManyRequests      | Too Many Requests
//	500    | InternalServerError  | Internal Server Error
//	502    | BadGateway           | Bad Gateway
//	503    | ServiceUnavailable   | Service Unavailable
//	504    | GatewayTimeout       | Gateway Timeout
//
// Constructors accept WithMessage and WithDetails:
//
//	return httperr.TooManyRequests(
//	    httperr.WithDetails(map[string]any{"retryAfter": 30}),
//	)
//
// # Wire format
//
// An *Error marshals to
//
//	{"statusCode":429,"name":"Too Many Requests","message":"Too Many Requests"}
//
// with a "details" object appended only when details are present.
//
// # Classification
//
// Classify turns any error into an *Error. Errors it does not recognize
// become a generic 500 whose message is always "Internal Server Error": the
// original text stays on the server side (logs, failure journal) and never
// reaches the caller. Use IsUnknown to decide whether a failure should be
// reported before it is classified.
//
// Domain errors marked with shared.MarkKind map to statuses without their
// message text leaking:
//
//	err := shared.MarkKind(repoErr, shared.KindNotFound)
//	httperr.Classify(err) // 404 Not Found, message "Not Found"
package httperr
