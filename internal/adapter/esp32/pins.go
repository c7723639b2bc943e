// Package esp32 describes the GPIO capabilities of ESP32 boards.
package esp32

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/berfenger/hwpgen/internal/core/domain"
)

var ErrUnknownBoard = errors.New("unknown board")

const (
	BOARD_ESP32DEV        = "esp32dev"
	BOARD_WEMOS_D1_MINI32 = "wemos_d1_mini32"
)

var (
	// GPIOs wired to the SPI flash
	FLASH_PINS = []int{6, 7, 8, 9, 10, 11}
	// GPIOs without an output driver
	INPUT_ONLY_PINS = []int{34, 35, 36, 37, 38, 39}
	// GPIOs sampled at reset to select the boot mode
	STRAPPING_PINS = []int{0, 2, 5, 12, 15}
	// GPIOs not bonded out on the ESP32 die
	MISSING_PINS = []int{20, 24, 28, 29, 30, 31}
)

const MAX_GPIO = 39

var boardAliases = map[string]map[string]int{
	BOARD_ESP32DEV: {
		"TX":  1,
		"RX":  3,
		"SDA": 21,
		"SCL": 22,
		"LED": 2,
	},
	BOARD_WEMOS_D1_MINI32: {
		"D0":  26,
		"D1":  22,
		"D2":  21,
		"D3":  17,
		"D4":  16,
		"D5":  18,
		"D6":  19,
		"D7":  23,
		"D8":  5,
		"TX":  1,
		"RX":  3,
		"SDA": 21,
		"SCL": 22,
		"LED": 2,
	},
}

// Catalog resolves pin references on one board.
type Catalog struct {
	board   string
	aliases map[string]int
}

func NewCatalog(board string) (*Catalog, error) {
	aliases, ok := boardAliases[board]
	if !ok {
		return nil, fmt.Errorf("%q, known boards are %s: %w", board, strings.Join(Boards(), ", "), ErrUnknownBoard)
	}
	return &Catalog{board: board, aliases: aliases}, nil
}

func Boards() []string {
	out := make([]string, 0, len(boardAliases))
	for b := range boardAliases {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Board() string {
	return c.board
}

// Lookup accepts a board alias ("D5"), a GPIO name ("GPIO18") or a bare
// number ("18").
func (c *Catalog) Lookup(ref string) (domain.PinInfo, error) {
	name := strings.ToUpper(strings.TrimSpace(ref))
	num, ok := c.aliases[name]
	if !ok {
		n, err := strconv.Atoi(strings.TrimPrefix(name, "GPIO"))
		if err != nil {
			return domain.PinInfo{}, fmt.Errorf("unknown pin %q on board %s", ref, c.board)
		}
		num = n
	}
	if num < 0 || num > MAX_GPIO || contains(MISSING_PINS, num) {
		return domain.PinInfo{}, fmt.Errorf("GPIO%d does not exist on ESP32", num)
	}
	return domain.PinInfo{
		Number:    num,
		Input:     true,
		Output:    !contains(INPUT_ONLY_PINS, num),
		Flash:     contains(FLASH_PINS, num),
		Strapping: contains(STRAPPING_PINS, num),
	}, nil
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
