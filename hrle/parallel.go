/*
Copyright © 2020 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package hrle

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ForEach calls f concurrently for every p in [0, n) and waits for all
// calls to return. It returns the first error encountered.
func ForEach(n int, f func(p int) error) error {
	var g errgroup.Group
	for p := 0; p < n; p++ {
		g.Go(func() error { return f(p) })
	}
	return g.Wait()
}

// Strided calls f for every i in [0, n), spreading the calls over
// GOMAXPROCS goroutines.
func Strided(n int, f func(i int)) {
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for procnum := 0; procnum < nprocs; procnum++ {
		go func(procnum int) {
			defer wg.Done()
			for i := procnum; i < n; i += nprocs {
				f(i)
			}
		}(procnum)
	}
	wg.Wait()
}
