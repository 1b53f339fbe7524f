// Package script runs widget declarations. A Func is executed once per run
// against the root Container; every widget call validates its options,
// derives the widget identity, reconciles session state and appends records
// to the run's delta queue. Containers opened with Columns or Container nest
// the identity path without changing those steps.
package script
