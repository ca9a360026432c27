// Package testdb provides utilities for tests that run against a real
// PostgreSQL database.
//
// Tests use a transaction-based isolation pattern: each test body runs in its
// own transaction, which is rolled back when the test completes. Tests can
// therefore run in parallel and need no manual cleanup.
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDB(t) // skips when DATABASE_URL is unset
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        books := postgres.NewPostgresBookStore(tx, nil)
//	        // ...
//	    })
//	}
//
// GetTestDB applies the embedded migrations once per process before handing
// out the connection.
package testdb
