// Package llm provides the provider-neutral side of the completion client.
//
// The provider package (llm/anthropic) turns these types into the exact payload the
// remote Messages API expects; everything here is independent of the SDK.
//
// # Core Concepts
//
//  1. Messages: A Message has a role (user or assistant) and Content, which is either
//     TextContent (a plain string) or BlockContent (ordered text and image blocks).
//
//  2. Tools: ToolSpec describes a tool the model may call. Its schema is always an
//     object schema; Request.Validate can check it locally when strict validation is on.
//
//  3. Client Interface: Synchronous() returns a buffered Response, Stream() returns a
//     lazy, single-consumer Stream. Complete() picks one based on Request.Stream.
//
//  4. Prompt caching: WithLastMessageCached marks the trailing block of the trailing
//     message so repeated conversation prefixes are billed at the cache read rate.
//
//  5. Cancellation: the context passed to a call is the cancellation token. Every
//     cancellation reaches the caller as a *CanceledError matching ErrCanceled.
//
//  6. Accounting: Pricing.Cost and CalculateCost estimate the USD cost of a Usage.
//
//  7. Middleware: Middleware and StreamMiddleware add cross-cutting concerns such as
//     LoggingMiddleware. WithTimeout layers a deadline on top of any Client.
//
// Usage Example
//
//	client, err := anthropic.NewAnthropicClient(anthropic.Config{APIKey: key}, logger)
//
//	req := &llm.Request{
//	    Messages: []llm.Message{
//	        llm.NewTextMessage(llm.RoleUser, "Hello!"),
//	    },
//	}
//
//	completion, err := llm.Complete(ctx, client, req)
package llm
