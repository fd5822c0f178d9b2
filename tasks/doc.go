// Package tasks manages asynchronous service jobs. Long-running operations
// such as image and video synthesis return a task ID immediately; this
// package fetches task state, polls until completion, cancels pending tasks,
// and lists historical tasks.
package tasks
