package llm

import (
	"fmt"
	"strings"

	"docchat/internal/document"
)

// DocumentInfo describes the loaded document for prompt construction.
type DocumentInfo struct {
	Source string
	Pages  int
	Chars  int
	Chunks int
}

// SmallDocumentPrompt embeds the whole document in the system message.
// Used when the text fits comfortably in model context.
func SmallDocumentPrompt(info DocumentInfo, text string) string {
	return fmt.Sprintf(`Você é um assistente especializado em análise de documentos.

Você tem acesso completo ao seguinte documento (%s):

====== DOCUMENTO COMPLETO ======
%s
====== FIM DO DOCUMENTO ======

Total de páginas: %d
Tamanho: %d caracteres

INSTRUÇÕES:
1. Use as informações do documento para responder às perguntas
2. Seja preciso e detalhado
3. Cite números de página quando disponíveis
4. Se não encontrar a informação, seja honesto sobre isso`,
		info.Source, text, info.Pages, info.Chars)
}

// LargeDocumentPrompt carries only a preview; each question brings its own
// retrieved excerpts in the user message.
func LargeDocumentPrompt(info DocumentInfo, preview string) string {
	return fmt.Sprintf(`Você é um assistente especializado em análise de documentos.

Você tem acesso a um documento (%s) com as seguintes informações:
- Total de páginas: %d
- Tamanho: %d caracteres
- Processado em %d trechos

PREVIEW DO DOCUMENTO:
%s

IMPORTANTE: Este é apenas um preview. Para cada pergunta do usuário, você receberá os trechos mais relevantes do documento completo.

INSTRUÇÕES:
1. Use SEMPRE as informações dos trechos fornecidos para responder
2. Se a informação não estiver nos trechos fornecidos, diga "Não encontrei essa informação específica nos trechos analisados"
3. Cite números de página quando disponíveis
4. Seja preciso e detalhado nas respostas
5. Se o usuário perguntar sobre capítulos ou seções específicas, analise cuidadosamente os trechos fornecidos`,
		info.Source, info.Pages, info.Chars, info.Chunks, preview)
}

// QuestionPrompt assembles the user message: retrieved excerpts first,
// then any extra context, then the question itself. With no excerpts the
// question goes through untouched.
func QuestionPrompt(question string, chunks []document.Chunk, extraContext string) string {
	if len(chunks) == 0 && extraContext == "" {
		return question
	}

	var blocks []string
	for i, chunk := range chunks {
		blocks = append(blocks, fmt.Sprintf("[Trecho %d - ID: %d]\n%s", i+1, chunk.Metadata.ChunkIndex, chunk.Content))
	}
	excerpts := strings.Join(blocks, "\n\n---\n\n")

	var sb strings.Builder
	sb.WriteString("TRECHOS RELEVANTES DO DOCUMENTO PARA ESTA PERGUNTA:\n\n")
	if extraContext != "" {
		sb.WriteString(extraContext)
		sb.WriteString("\n")
	}
	sb.WriteString(excerpts)
	sb.WriteString("\n\nUse APENAS as informações acima para responder à pergunta a seguir. ")
	sb.WriteString("Se a resposta não estiver nesses trechos, diga claramente que não encontrou a informação específica.")
	sb.WriteString("\n\nPERGUNTA DO USUÁRIO: ")
	sb.WriteString(question)
	return sb.String()
}
