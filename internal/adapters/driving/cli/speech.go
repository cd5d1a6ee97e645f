package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var speakOutput string

var speakCmd = &cobra.Command{
	Use:   "speak [text...]",
	Short: "Synthesise speech for a word or sentence",
	Long: `Synthesise speech with the cloud voice. The audio is raw 16-bit PCM.
With --out the PCM bytes are written to a file; otherwise the base64 audio is
printed. With the device voice selected no audio is produced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpeak,
}

var pronounceCmd = &cobra.Command{
	Use:   "pronounce [reference] [transcript]",
	Short: "Score a spoken attempt against its reference text",
	Args:  cobra.ExactArgs(2),
	RunE:  runPronounce,
}

func init() {
	speakCmd.Flags().StringVarP(&speakOutput, "out", "o", "", "write PCM audio to this file")

	rootCmd.AddCommand(speakCmd)
	rootCmd.AddCommand(pronounceCmd)
}

func runSpeak(cmd *cobra.Command, args []string) error {
	if err := requireService("speech", speechService); err != nil {
		return err
	}

	audio, err := speechService.Speak(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("failed to synthesise speech: %w", err)
	}

	if audio == "" {
		cmd.Println("No audio produced (device voice selected or provider returned none).")
		return nil
	}

	if speakOutput == "" {
		cmd.Println(audio)
		return nil
	}

	pcm, err := base64.StdEncoding.DecodeString(audio)
	if err != nil {
		return fmt.Errorf("failed to decode audio: %w", err)
	}
	if err := os.WriteFile(speakOutput, pcm, 0o644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	cmd.Printf("Wrote %d bytes to %s\n", len(pcm), speakOutput)
	return nil
}

func runPronounce(cmd *cobra.Command, args []string) error {
	if err := requireService("speech", speechService); err != nil {
		return err
	}

	result, err := speechService.EvaluatePronunciation(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to evaluate pronunciation: %w", err)
	}

	cmd.Printf("Score: %d/100\n", result.Score)
	if result.Feedback != "" {
		cmd.Println(result.Feedback)
	}
	for _, w := range result.Words {
		mark := "ok"
		if !w.Correct {
			mark = "x"
		}
		cmd.Printf("  %-2s %s\n", mark, w.Word)
	}
	return nil
}
