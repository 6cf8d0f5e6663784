// Package debug provides assertions compiled out of production builds,
// matching the teacher's cmn/debug.Assert call shape. Build with
// `-tags debug` to make assertions panic instead of no-op.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package debug

var enabled = false

// Enable is exposed so tests can turn on assertions without a build tag.
func Enable()  { enabled = true }
func Disable() { enabled = false }
