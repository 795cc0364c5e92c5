package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shashiranjanraj/foodexplorer/app/api"
	"github.com/shashiranjanraj/foodexplorer/app/models"
	"github.com/shashiranjanraj/foodexplorer/app/services"
	"github.com/shashiranjanraj/foodexplorer/app/views"
)

// Checkout is the terminal checkout screen.
type Checkout struct {
	Service *services.CheckoutService
	View    *views.Controller
	API     *api.Client
	In      *bufio.Reader
	Out     io.Writer
}

// Render prints the panels the view controller has on screen.
func (c *Checkout) Render() {
	st := c.Service.State()
	panels := c.View.Panels()

	if panels.Order {
		c.renderOrder(st)
	}
	if panels.Payment {
		c.renderPayment(st)
	}
}

func (c *Checkout) renderOrder(st services.CheckoutState) {
	fmt.Fprintln(c.Out, "── Meu pedido ──")
	switch {
	case st.Loading:
		fmt.Fprintln(c.Out, "Carregando...")
		return
	case st.Empty():
		fmt.Fprintln(c.Out, "Nenhum item no pedido.")
		return
	}
	for _, it := range st.Items {
		fmt.Fprintf(c.Out, "  [%s] %d x %s  %s\n      %s\n", it.ID, it.Amount, it.Name, BRL(it.Price), ImageURL(c.API, it.Image))
	}
	fmt.Fprintf(c.Out, "Total: %s\n", BRL(st.Total))
}

func (c *Checkout) renderPayment(st services.CheckoutState) {
	fmt.Fprintln(c.Out, "── Pagamento ──")
	switch {
	case st.Processing:
		fmt.Fprintln(c.Out, "Processando pagamento...")
	case st.Accepted:
		fmt.Fprintln(c.Out, "Pedido aprovado!")
	case st.Method == services.MethodPix:
		fmt.Fprintln(c.Out, "PIX  [QR code]")
	default:
		fmt.Fprintf(c.Out, "Cartão  número: %s  validade: %s  CVC: %s\n", st.Card.Number, st.Card.Expiry, st.Card.CVC)
		if st.FormComplete {
			fmt.Fprintln(c.Out, "Pronto para finalizar.")
		}
	}
}

const help = `Comandos:
  pagar            ir para o pagamento
  pedido           voltar ao pedido
  remover <id>     remover um item
  pix | cartao     escolher a forma de pagamento
  numero <n>       número do cartão
  validade <mmaa>  validade do cartão
  cvc <n>          código de segurança
  finalizar        fechar o pedido
  largura <n>      ajustar a largura da tela
  sair             sair`

// Run loads the order and reads commands until the order is accepted, the
// user quits or input ends.
func (c *Checkout) Run(ctx context.Context) error {
	if err := c.Service.Open(ctx); err != nil {
		return err
	}
	c.Render()
	fmt.Fprintln(c.Out, help)

	for {
		fmt.Fprint(c.Out, "> ")
		line, err := c.In.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "":
			continue
		case "sair", "q":
			return nil
		case "pagar":
			c.report(c.Service.OpenPayment())
		case "pedido":
			c.report(c.Service.OpenOrder())
		case "remover":
			c.report(c.Service.RemoveItem(ctx, models.ID(arg)))
		case "pix":
			c.report(c.Service.SelectPayment(services.MethodPix))
		case "cartao":
			c.report(c.Service.SelectPayment(services.MethodCreditCard))
		case "numero":
			c.Service.SetCardNumber(arg)
		case "validade":
			c.Service.SetExpiry(arg)
		case "cvc":
			c.Service.SetCVC(arg)
		case "largura":
			var w int
			if _, err := fmt.Sscan(arg, &w); err != nil {
				fmt.Fprintln(c.Out, "largura inválida")
				continue
			}
			c.View.Resize(w)
		case "finalizar":
			if err := c.Service.Finalize(ctx); err != nil {
				c.report(err)
				break
			}
			c.Render()
			return c.waitRedirect(ctx)
		default:
			fmt.Fprintln(c.Out, help)
			continue
		}
		c.Render()
	}
}

// Pay submits the order with card without prompting for commands.
func (c *Checkout) Pay(ctx context.Context, card services.CardForm) error {
	if err := c.Service.Open(ctx); err != nil {
		return err
	}
	c.Render()
	if err := c.Service.OpenPayment(); err != nil {
		c.report(err)
		return err
	}
	if err := c.Service.SelectPayment(services.MethodCreditCard); err != nil {
		return err
	}
	c.Service.SetCardNumber(card.Number)
	c.Service.SetExpiry(card.Expiry)
	c.Service.SetCVC(card.CVC)

	if err := c.Service.Finalize(ctx); err != nil {
		c.report(err)
		return err
	}
	c.Render()
	return c.waitRedirect(ctx)
}

func (c *Checkout) waitRedirect(ctx context.Context) error {
	select {
	case <-c.Service.Redirected():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// report explains local refusals. API failures were already notified.
func (c *Checkout) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, services.ErrNoItems):
		fmt.Fprintln(c.Out, "Adicione itens ao pedido antes de pagar.")
	case errors.Is(err, services.ErrFormIncomplete):
		fmt.Fprintln(c.Out, "Preencha os dados do cartão.")
	case errors.Is(err, services.ErrPixUnsupported):
		fmt.Fprintln(c.Out, "Pagamento via PIX ainda não disponível. Escolha cartão.")
	case errors.Is(err, services.ErrSubmissionInFlight):
		fmt.Fprintln(c.Out, "Pedido já está sendo enviado.")
	case errors.Is(err, services.ErrCancelled):
	case errors.Is(err, services.ErrWrongPhase), errors.Is(err, services.ErrUnknownMethod):
		fmt.Fprintln(c.Out, "Ação indisponível agora.")
	}
}
