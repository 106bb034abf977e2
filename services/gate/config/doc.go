// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the gate's settings file.
//
// Settings live in a .codegate.yaml discovered by walking upward from
// the working directory, or at an explicit path. Values may reference
// environment variables with ${VAR} syntax; references are expanded
// before validation. Absent file or absent fields fall back to
// defaults, so a project with no settings file gets a fully working
// configuration.
package config
