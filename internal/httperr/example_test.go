package httperr_test

import (
	"errors"
	"fmt"

	"lambda-go-template/internal/httperr"
	"lambda-go-template/internal/shared"
)

func Example_wireFormat() {
	b, _ := httperr.TooManyRequests().MarshalJSON()
	fmt.Println(string(b))

	b, _ = httperr.BadRequest(httperr.WithDetails(map[string]any{"field": "name"})).MarshalJSON()
	fmt.Println(string(b))

	// Output:
	// {"statusCode":429,"name":"Too Many Requests","message":"Too Many Requests"}
	// {"statusCode":400,"name":"Bad Request","message":"Bad Request","details":{"field":"name"}}
}

func Example_classify() {
	unknown := errors.New("dial tcp 10.0.0.7:5432: connection refused")
	fmt.Println(httperr.Classify(unknown).StatusCode(), httperr.Classify(unknown).Message())

	marked := shared.MarkKind(errors.New("order 42 missing"), shared.KindNotFound)
	fmt.Println(httperr.Classify(marked).StatusCode(), httperr.Classify(marked).Message())

	// Output:
	// 500 Internal Server Error
	// 404 Not Found
}
