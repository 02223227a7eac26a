// Package fixture compiles CUE fixture definitions into typed Specs.
//
// A fixture names one sequence for the probe runner to build:
//
//	fixture: nums: {
//	    kind:   "slice"         // slice | list | forward_list | stream | set
//	    elem:   "int"           // int | string
//	    values: [1, 2, 4, 5, 6, 7]
//	    sorted: true            // optional, checked here
//	}
//
// Floats are rejected. Strings are NFC-normalized so that fixtures written in
// different normalization forms compare equal.
package fixture
