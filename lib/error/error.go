/*package error contains simple functions for reporting fatal errors from
the command line tools.
*/
package error

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Logger receives all reports. Its ExitFunc is what ends the program.
var Logger = logrus.StandardLogger()

// External reports an error and exits. It should be used when an error is
// something a user could reasonably be expected to fix through changes in
// arguments/data/environment. It has the same signature as the standard
// fmt.*printf() functions.
func External(format string, a ...interface{}) {
	Logger.Fatalf("Exited early with the following error:\n"+format, a...)
}

// Internal reports an error along with a stack trace and exits. It should
// be used when the error requires a code dive to fix. It has the same
// signature as the standard fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	Logger.WithField("stack", string(debug.Stack())).Fatalf(
		"Exited early with the following internal error:\n%s",
		fmt.Sprintf(format, a...))
}
