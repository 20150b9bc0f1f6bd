package main

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/usrbin"
	"github.com/phil-mansfield/usrbin/lib/error"
	"github.com/phil-mansfield/usrbin/lib/stats"
)

var axisNames = [3]string{"x", "y", "z"}

func main() {
	if len(os.Args) < 2 {
		error.External("Usage: print_usrbin file.bnn [file.bnn ...]")
	}

	for _, path := range os.Args[1:] {
		ds, err := usrbin.ReadDataset(path, usrbin.WithDetectedByteOrder(),
			usrbin.WithStrictness(usrbin.WarnOnMismatch))
		if err != nil {
			error.External("%s", err.Error())
		}
		printDataset(path, ds)
	}
}

func printDataset(path string, ds *usrbin.Dataset) {
	fmt.Printf("# %s\n", path)
	fmt.Printf("# title:     %s\n", ds.Summary.Title)
	fmt.Printf("# time:      %s\n", ds.Summary.Time)
	fmt.Printf("# weight:    %g\n", ds.Summary.Weight)
	fmt.Printf("# primaries: %d\n", ds.Summary.TotalPrimaries())
	fmt.Printf("# batches:   %d\n", ds.Summary.NBatch)
	fmt.Printf("# detectors: %d (statistics: %v)\n",
		ds.Len(), ds.HasStatistics)

	for i, d := range ds.Detectors {
		hd := &d.Header
		if d.Data.Shape() != hd.Shape() {
			error.Internal("Detector %d of %s has a data grid with shape %v, "+
				"but its header gives %v.", i, path, d.Data.Shape(), hd.Shape())
		}
		fmt.Printf("\n%2d %-10s binning %d, particle %d\n",
			i, hd.Name, hd.BinType, hd.ParticleType)
		for dim, ax := range hd.Axes {
			fmt.Printf("   %s: [%11.4g, %11.4g] %5d bins of %.4g\n",
				axisNames[dim], ax.Lo, ax.Hi, ax.N, ax.Width)
		}

		s := stats.Summarize(d.Data)
		fmt.Printf("   sum %.6g, mean %.6g, std %.6g, min %.6g, "+
			"max %.6g at %v\n", s.Sum, s.Mean, s.StdDev, s.Min, s.Max, s.ArgMax)
		if d.Error != nil {
			e := stats.Summarize(d.Error)
			fmt.Printf("   relative error: mean %.4g, max %.4g\n",
				e.Mean, e.Max)
		}
	}
}
