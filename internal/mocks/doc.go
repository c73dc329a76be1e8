// Package mocks provides centralized mock implementations for testing.
//
// Mocks with function fields (MockOracle, MockJWTService) suit
// behavior-driven tests. The service mocks embed testify's mock.Mock and suit
// handler tests that assert on calls and arguments.
//
// Usage:
//
//	o := &mocks.MockOracle{
//	    ScoreFreeTextFn: func(ctx context.Context, req oracle.FreeTextRequest) (oracle.Score, error) {
//	        return oracle.Score{Score: 90, Feedback: "good"}, nil
//	    },
//	}
package mocks
