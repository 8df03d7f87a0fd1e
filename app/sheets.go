package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"painel-solicitacoes/internal/dto"
	"painel-solicitacoes/internal/repositories"
	"painel-solicitacoes/internal/services"
)

// sheetService для CLI: событий нет, но кеш сервера сбрасывается после импорта.
func (a *app) sheetService(ctx context.Context) *services.SheetService {
	var cacheRepo repositories.CacheRepositoryInterface
	if client := a.redisClient(ctx); client != nil {
		cacheRepo = repositories.NewRedisCacheRepository(client)
	}
	return services.NewSheetService(
		repositories.NewTxManager(a.db),
		repositories.NewRequestRepository(a.db, a.logger),
		cacheRepo,
		nil,
		a.validate,
		a.logger,
	)
}

func exportCmd() *cobra.Command {
	var (
		output string
		filter dto.RequestFilterDTO
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exportar solicitações para XLSX no formato da planilha",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("não foi possível criar %s: %w", output, err)
			}
			defer f.Close()

			if err := a.sheetService(ctx).Export(ctx, filter, f); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", color.New(color.FgGreen).Sprint("✓ exportado:"), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "solicitacoes.xlsx", "arquivo de saída")
	cmd.Flags().StringVar(&filter.Status, "status", "", "filtrar por status (todos = sem filtro)")
	cmd.Flags().StringVar(&filter.Area, "area", "", "filtrar por área solicitante")
	cmd.Flags().StringVar(&filter.Date, "date", "", "filtrar por dia (YYYY-MM-DD)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <arquivo.xlsx>",
		Short: "Importar solicitações de uma planilha XLSX (upsert pelo ID)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("não foi possível abrir %s: %w", args[0], err)
			}
			defer f.Close()

			result, err := a.sheetService(ctx).Import(ctx, f)
			if err != nil {
				return err
			}

			fmt.Printf("criados: %s  atualizados: %s  ignorados: %s\n",
				color.New(color.FgGreen).Sprint(result.Created),
				color.New(color.FgBlue).Sprint(result.Updated),
				color.New(color.FgYellow).Sprint(result.Skipped),
			)
			for _, msg := range result.Errors {
				fmt.Println(color.New(color.FgRed).Sprint("  ✗ " + msg))
			}
			return nil
		},
	}
}
