package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"painel-solicitacoes/seeders"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Recriar a tabela de solicitações com os dados de demonstração",
		Long: `Apaga todas as solicitações e insere o conjunto de demonstração
(EMP2147..EMP2151), depois imprime as estatísticas.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			stats, err := seeders.SeedRequests(ctx, a.db, a.logger)
			if err != nil {
				return fmt.Errorf("falha ao popular solicitações: %w", err)
			}

			fmt.Println(color.New(color.FgGreen).Sprint("✅ Dados de demonstração inseridos"))
			fmt.Println("📊 Estatísticas:")
			fmt.Printf("   Pendentes:    %s\n", color.New(color.FgYellow).Sprint(stats.Pending))
			fmt.Printf("   Em Andamento: %s\n", color.New(color.FgBlue).Sprint(stats.InProgress))
			fmt.Printf("   Concluídos:   %s\n", color.New(color.FgGreen).Sprint(stats.Done))
			fmt.Printf("   Total:        %d\n", stats.Total())
			return nil
		},
	}
}
