// Copyright (c) 2017 The Decred developers
// Copyright (c) 2021-2024 The mintastic developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package sampleconfig provides a single constant that contains the contents of
the sample configuration file for mintctl.  It is written out the first time
mintctl runs without a configuration file so the available options are
documented next to the values a user sets.
*/
package sampleconfig
