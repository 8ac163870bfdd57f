package pdf

// PrintCSS is injected before printing. It compresses sizing for A4 and keeps
// list items, callout blocks and headings from splitting across pages.
const PrintCSS = `
@media print {
    html {
        font-size: 11px !important;
    }
    body {
        width: 100% !important;
        max-width: none !important;
        margin: 0 !important;
        padding: 0 !important;
    }
    .ml-64, [class*="ml-64"] {
        margin-left: 0 !important;
        max-width: none !important;
        width: 100% !important;
        padding-left: 1rem !important;
        padding-right: 1rem !important;
    }
    .p-8 {
        padding: 1rem !important;
    }
    .text-4xl { font-size: 1.5rem !important; }
    .text-3xl { font-size: 1.25rem !important; }
    .text-2xl { font-size: 1.15rem !important; }
    .text-xl { font-size: 1.05rem !important; }
    .text-lg { font-size: 1rem !important; }
    .prose p, .text-gray-700, .text-gray-600 { font-size: 0.95rem !important; }
    pre, code, .diagram { font-size: 0.7rem !important; }
    .mb-16 { margin-bottom: 1.5rem !important; }
    .mb-12 { margin-bottom: 1rem !important; }
    .mb-6 { margin-bottom: 0.5rem !important; }
    .mb-4 { margin-bottom: 0.35rem !important; }
    .space-y-2 > * + * { margin-top: 0.25rem !important; }
    h2, h3, h4 {
        page-break-after: avoid !important;
    }
    ul, ol {
        page-break-inside: avoid !important;
        break-inside: avoid !important;
    }
    .bg-green-50, div[class*="border-l-4"] {
        page-break-inside: avoid !important;
        break-inside: avoid !important;
    }
    li {
        page-break-inside: avoid !important;
        break-inside: avoid !important;
    }
}
`
