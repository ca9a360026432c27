// Package mocks provides a hand-written BookService double for handler tests.
//
// MockBookService returns the value of the matching Fn field when it is set,
// otherwise its Book, Books, Found and DefaultError fields. Every call is
// recorded by method name, so tests can assert that a rejected request never
// reached the service:
//
//	books := &mocks.MockBookService{}
//	// ... serve a request that fails validation ...
//	assert.Zero(t, books.TotalCalls())
package mocks
