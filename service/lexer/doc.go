// Package lexer splits reactive notebook source into top-level declarations:
// the setup block, decorated cells, functions and classes, unparsable cells
// and the notebook header. It does not interpret cell bodies.
package lexer
