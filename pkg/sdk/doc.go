// Package astra provides a Go client for the astra retrieval API.
//
// The client sends a natural-language question and receives either an
// augmented chat request (system instruction, context-bearing user turn,
// source metadata) or a plain message when nothing relevant was found:
//
//	client, _ := astra.New("http://localhost:8080", astra.WithAPIKey("secret"))
//	res, err := client.Query(ctx, "What is the evidence for dark matter?")
//	if err != nil { ... }
//	if res.Request != nil {
//	    // feed res.Request.Messages to a chat model
//	} else {
//	    fmt.Println(res.Message)
//	}
package astra
