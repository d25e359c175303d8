/*
 * comm.go, part of orbplot.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package comm provides the collective operations needed to run a plot over a
//fixed-size group of cooperating workers ("ranks"). All the ranks of a group
//run the same code and only talk to each other through two blocking
//collectives: an element-wise sum over a float64 buffer, and a barrier.
//Every rank of the group must call the same sequence of collectives.
package comm

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

//Communicator is what a rank sees of its group.
type Communicator interface {
	//Rank returns the index of the calling rank, 0 <= Rank < Size.
	Rank() int

	//Size returns the number of ranks in the group. It doesn't change during a run.
	Size() int

	//AllReduceSum replaces buf, in every rank, with the element-wise sum of the
	//buf slices given by all the ranks. It blocks until all the ranks have called it.
	AllReduceSum(ctx context.Context, buf []float64) error

	//Barrier blocks until all the ranks have called it.
	Barrier(ctx context.Context) error
}

//Run starts size ranks, each running f in its own goroutine, and waits
//for all of them to return. The first error returned by a rank cancels the
//context given to the others, so ranks blocked in a collective return
//too. Run returns that first error.
func Run(ctx context.Context, size int, f func(ctx context.Context, c Communicator) error) error {
	if size < 1 {
		return Error{fmt.Sprintf("invalid group size %d", size), []string{"Run"}}
	}
	eg, egctx := errgroup.WithContext(ctx)
	g := newGroup(egctx, size)
	for r := 0; r < size; r++ {
		rank := &member{g: g, rank: r}
		eg.Go(func() error {
			return f(egctx, rank)
		})
	}
	return eg.Wait()
}

//Single returns a Communicator for a group with only one rank, where the
//collectives return immediately.
func Single() Communicator {
	return single{}
}

type single struct{}

func (s single) Rank() int { return 0 }

func (s single) Size() int { return 1 }

func (s single) AllReduceSum(ctx context.Context, buf []float64) error { return ctx.Err() }

func (s single) Barrier(ctx context.Context) error { return ctx.Err() }

//member is one rank of a group
type member struct {
	g    *group
	rank int
}

func (m *member) Rank() int { return m.rank }

func (m *member) Size() int { return m.g.size }

func (m *member) AllReduceSum(ctx context.Context, buf []float64) error {
	if err := m.g.collective(ctx, opSum, m.rank, buf); err != nil {
		return errDecorate(err, "AllReduceSum")
	}
	return nil
}

func (m *member) Barrier(ctx context.Context) error {
	if err := m.g.collective(ctx, opBarrier, m.rank, nil); err != nil {
		return errDecorate(err, "Barrier")
	}
	return nil
}

//Errors

//Error is the error type for the package. A collective that fails
//fails for all the ranks taking part in it.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return fmt.Sprintf("comm: %s", err.message)
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Critical always returns true, there are no recoverable communication errors.
func (err Error) Critical() bool { return true }

func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = append(e.deco, caller)
		return e
	}
	return fmt.Errorf("%s: %w", caller, err)
}
