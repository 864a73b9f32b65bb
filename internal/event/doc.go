// Package event carries notifications between the formatting engine
// and its host. Delivery is synchronous on the publisher's goroutine;
// handler panics are contained so one misbehaving subscriber cannot
// take down a render pass.
package event
