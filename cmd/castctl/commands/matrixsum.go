package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lguibr/castctl/examples/matrixsum"
	"github.com/spf13/cobra"
)

var matrixsumCmd = &cobra.Command{
	Use:   "matrixsum",
	Short: "Sum each row of a matrix with one actor per row",
	Long: `Reads a matrix from stdin: a row count, a column count, then for
each cell a value and a simulated computation delay in milliseconds. Spawns
one actor per row and prints each row's sum in row order.`,
	RunE: runMatrixSum,
}

func runMatrixSum(cmd *cobra.Command, args []string) error {
	m, err := readMatrix(os.Stdin)
	if err != nil {
		return err
	}

	sums, err := matrixsum.Run(m, runtimeOptions()...)
	if err != nil {
		return err
	}

	for _, s := range sums {
		fmt.Println(s)
	}
	return nil
}

// readMatrix parses a whitespace-separated stream of integers: rows,
// columns, then rows*columns (value, delay-in-milliseconds) pairs.
func readMatrix(r io.Reader) (*matrixsum.Matrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	readInt := func() (int, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		var v int
		if _, err := fmt.Sscanf(scanner.Text(), "%d", &v); err != nil {
			return 0, fmt.Errorf("parse int: %w", err)
		}
		return v, nil
	}

	rows, err := readInt()
	if err != nil {
		return nil, fmt.Errorf("read row count: %w", err)
	}
	columns, err := readInt()
	if err != nil {
		return nil, fmt.Errorf("read column count: %w", err)
	}

	m := matrixsum.NewMatrix(rows, columns)
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			val, err := readInt()
			if err != nil {
				return nil, fmt.Errorf("read value[%d][%d]: %w", row, col, err)
			}
			delayMs, err := readInt()
			if err != nil {
				return nil, fmt.Errorf("read delay[%d][%d]: %w", row, col, err)
			}
			m.Values[row][col] = val
			m.Delays[row][col] = time.Duration(delayMs) * time.Millisecond
		}
	}
	return m, nil
}
