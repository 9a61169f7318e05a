// SPDX-License-Identifier: GPL-3.0-or-later

package loginsight

import "github.com/bassosimone/errclass"

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Implementations map errors to short, descriptive labels (e.g., "ETIMEDOUT",
// "ECONNRESET") that facilitate systematic analysis of transport failures
// across many API calls.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
//
// This allows using simple functions as classifiers:
//
//	config.ErrClassifier = ErrClassifierFunc(func(err error) string { ... })
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier classifies errors using [errclass.New].
//
// It returns an empty string for nil errors and a categorical label
// (e.g., "ETIMEDOUT", "ECONNREFUSED", "EGENERIC") otherwise.
var DefaultErrClassifier = ErrClassifierFunc(errclass.New)
