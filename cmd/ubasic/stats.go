package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

var s struct {
	elapsed time.Time
	utime   int64
	stime   int64
}

func initClock() {

	s.elapsed = time.Now()
	s.utime, s.stime = getCPUInfo()
}

func printStatistics(numStatements int64) {

	fmt.Println()
	printCpuUsage()
	fmt.Printf("%d %s executed\n", numStatements, pluralize("statement", numStatements))
}

func printCpuUsage() {

	elapsed := time.Since(s.elapsed)
	utime, stime := getCPUInfo()

	fmt.Printf("CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-s.utime), formatCPUTime(stime-s.stime))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

//
// User and system CPU seconds of this process, from /proc.  Zero
// where /proc is not available
//

func getCPUInfo() (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck <= 0 {
		return 0, 0
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	// the command name can hold spaces, so count fields from after it
	if i := strings.LastIndexByte(string(contents), ')'); i >= 0 {
		contents = contents[i+1:]
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 13 {
		return 0, 0
	}

	utime, _ := strconv.ParseInt(fields[11], 10, 64)
	stime, _ := strconv.ParseInt(fields[12], 10, 64)

	return utime / clktck, stime / clktck
}

func pluralize(word string, n int64) string {

	if n == 1 {
		return word
	}

	return word + "s"
}
