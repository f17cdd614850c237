// Package format renders syntax trees produced by astbuild as C# text.
//
// The printer is deliberately plain: one declaration per call, canonical
// spacing, Allman braces. It never consults the program model; everything it
// prints comes from the tree.
package format
