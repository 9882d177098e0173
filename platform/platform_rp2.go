//go:build rp2040 || rp2350

package platform

import (
	"context"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"machine"
)

// Open configures UART0 as both the serial link and the operator
// console.
func Open() Board {
	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	port := &uartPort{u: hw}
	return Board{Serial: port, Console: port}
}

// uartPort adapts uartx to io.Reader / io.Writer.
type uartPort struct{ u *uartx.UART }

func (p *uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }

func (p *uartPort) Read(b []byte) (int, error) {
	return p.u.RecvSomeContext(context.Background(), b)
}
