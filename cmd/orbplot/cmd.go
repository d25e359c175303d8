/*
 * cmd.go, part of orbplot.
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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rmera/orbplot"
	"github.com/rmera/orbplot/comm"
	"github.com/rmera/orbplot/cube"
	"github.com/rmera/orbplot/gto"
	"github.com/rmera/orbplot/histo"
	"github.com/rmera/orbplot/input"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/floats"
)

//Version is the version of orbplot.
const Version = "0.3.0"

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
	log.SetOutput(os.Stderr)
	Root.PersistentFlags().BoolP("verbose", "v", false, "print debug messages, including the progress of the sampling")
	runFlags(runCmd.Flags())
	checkCmd.Flags().Int("bins", 0, "also print a histogram of the values with this many bins")
	checkCmd.Flags().Bool("json", false, "print one JSON object per file")
	Root.AddCommand(runCmd, checkCmd, versionCmd)
}

func runFlags(fs *pflag.FlagSet) {
	fs.StringP("system", "s", "", "YAML file with the ions and orbitals of the system (required)")
	fs.IntP("procs", "n", 1, "number of nodes sharing the orbitals")
	fs.String("runid", "", "prefix for the output files (default: the input file name without extension)")
	fs.Int("electron", 0, "electron moved through the grid")
}

//Root is the main command.
var Root = &cobra.Command{
	Use:   "orbplot",
	Short: "Plot orbitals and electron densities on a grid.",
	Long: `orbplot samples the orbitals of a system on a regular grid and writes them, and
the electron density, as Gaussian cube files. It can also plot the pair density
around reference points, from the coefficients of a two-body density matrix.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		if v {
			log.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("orbplot v%s\n", Version)
	},
}

var runCmd = &cobra.Command{
	Use:   "run input",
	Short: "Run a plot.",
	Long: `run reads the plot input and samples the orbitals of the system given with --system.
The input contains ORBITALS { } (or CORBITALS { } for complex orbitals) and, optionally,
RESOLUTION, MINMAX { }, PLOTORBITALS { }, JEEP_CUBE, PERIODIC, PROFILE, COMPRESS,
TBDM_COEFF and TBDM_R { }.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		sysname, _ := fs.GetString("system")
		procs, _ := fs.GetInt("procs")
		runid, _ := fs.GetString("runid")
		elec, _ := fs.GetInt("electron")
		if sysname == "" {
			return fmt.Errorf("orbplot: --system is required")
		}
		if runid == "" {
			runid = strings.TrimSuffix(args[0], filepath.Ext(args[0]))
		}
		words, err := input.ParseFile(args[0])
		if err != nil {
			return fmt.Errorf("orbplot: reading input: %w", err)
		}
		sys, err := gto.ReadFile(sysname)
		if err != nil {
			return fmt.Errorf("orbplot: reading system: %w", err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		O := orbplot.DefaultOptions()
		O.Log(log)
		O.Electron(elec)
		start := time.Now()
		if procs == 1 {
			err = orbplot.Run(ctx, comm.Single(), sys, words, runid, O)
		} else {
			err = comm.Run(ctx, procs, func(ctx context.Context, c comm.Communicator) error {
				return orbplot.Run(ctx, c, sys, words, runid, O)
			})
		}
		if err != nil {
			return err
		}
		log.WithField("nodes", procs).Infof("plot done in %s", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

//cubeSummary is what check prints for each file.
type cubeSummary struct {
	File      string      `json:"file"`
	Atoms     int         `json:"atoms"`
	Counts    [3]int      `json:"counts"`
	Min       float64     `json:"min"`
	Max       float64     `json:"max"`
	Integral  float64     `json:"integral"`
	Histogram *histo.Data `json:"histogram,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check file.cube [file.cube...]",
	Short: "Summarize cube files.",
	Long: `check reads cube files (possibly compressed with zstd or gzip) in the Gaussian
layout, and prints their grid size and the range and integral of their values.
With --bins, the distribution of the values is printed too. With --json, the
summary of each file is printed as a JSON object in a single line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bins, _ := cmd.Flags().GetInt("bins")
		asjson, _ := cmd.Flags().GetBool("json")
		for _, name := range args {
			H, values, err := cube.ReadFile(name)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return fmt.Errorf("%s: no values", name)
			}
			vol := H.Step.Det()
			if vol < 0 {
				vol = -vol
			}
			sum := cubeSummary{File: name, Atoms: H.NAtoms(), Counts: H.Counts, Min: floats.Min(values), Max: floats.Max(values), Integral: floats.Sum(values) * vol}
			if bins > 0 {
				sum.Histogram = histo.NewData(histo.Even(sum.Min, sum.Max, bins), values)
				sum.Histogram.Normalize()
			}
			if asjson {
				b, err := json.Marshal(sum)
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				continue
			}
			cmd.Printf("%s: %d atoms, %dx%dx%d points, min %g max %g integral %g\n", name, sum.Atoms,
				H.Counts[0], H.Counts[1], H.Counts[2], sum.Min, sum.Max, sum.Integral)
			if sum.Histogram != nil {
				cmd.Println(sum.Histogram.String())
			}
		}
		return nil
	},
}
