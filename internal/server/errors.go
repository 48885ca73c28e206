// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated means neither SERVER_HTTP_ADDRESS nor
// SERVER_GRPC_ADDRESS was set.
var errNoServersAreCreated = errors.New("no servers are created: set an http or grpc address")
