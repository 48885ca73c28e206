// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client application runtime.
//
// It maps subcommands onto server calls made through the adapter, keeps the
// session token and device identifier in the OS keyring, and renders server
// answers for the terminal.
package client
