// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the on-device agent runtime.
//
// It wires persistent storage, the connectivity monitor, the sync engine
// and the local control API into a single process lifecycle.
package client
