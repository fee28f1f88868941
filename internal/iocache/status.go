package iocache

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/riskboard/schema"
)

// PrintStoreStatus prints record store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Imports: %s\n", humanize.Comma(int64(status.TotalImports)))
	fmt.Printf("Stored Rows: %s\n", humanize.Comma(int64(status.TotalRows)))
	fmt.Printf("Distinct Bugs: %s\n", humanize.Comma(int64(status.DistinctBugs)))
	if status.TotalImports > 0 {
		fmt.Printf("Last Import ID: %s\n", status.LastImportID)
		fmt.Printf("Last Import: %s (%s)\n", status.LastImportTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastImportTime))
		fmt.Printf("Oldest Import: %s (%s)\n", status.OldestImportTime.Format("2006-01-02 15:04:05"), humanize.Time(status.OldestImportTime))
	}
}
