// Copyright 2026 The DormNet Authors
// SPDX-License-Identifier: Apache-2.0

// Package prompt asks the operator for text, secrets and yes/no
// confirmations.
//
// When input is a terminal, secrets are read with echo disabled
// (golang.org/x/term). Otherwise every answer is read line by line from
// the input, which lets scripts and tests pipe answers in.
package prompt
