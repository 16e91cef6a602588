// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/KimMachineGun/automemlimit/memlimit"
	gomaxecs "github.com/rdforte/gomaxecs/maxprocs"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/cardinalhq/recordkit/cmd"
)

func simpleLogger(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
}

func init() {
	if gomaxecs.IsECS() {
		if _, err := gomaxecs.Set(gomaxecs.WithLogger(simpleLogger)); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set maxprocs for ECS: %v\n", err)
		}
	} else {
		if _, err := maxprocs.Set(maxprocs.Logger(func(string, ...any) {})); err != nil {
			fmt.Fprintf(os.Stderr, "failed to set maxprocs: %v\n", err)
		}
	}

	// Decoded images and parquet files are held in memory, so keep headroom
	// under a container limit.
	if _, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(0.8),
		memlimit.WithLogger(slog.New(slog.DiscardHandler)),
		memlimit.WithProvider(
			memlimit.ApplyFallback(
				memlimit.FromCgroup,
				memlimit.FromSystem,
			),
		),
	); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set memory limit: %v\n", err)
	}
}

func main() {
	cmd.Execute()
}
