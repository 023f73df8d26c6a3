// Package calculator provides a two-operand arithmetic tool.
package calculator
